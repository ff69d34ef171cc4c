package job

import (
	"millgen/pkg/gcode"
	"millgen/pkg/geometry"
)

// Plate returns the two programs of a 50 x 50 mm, 3 mm thick example plate:
// twelve through holes drilled with a 3 mm bit, then a centered 25.1 mm
// square pocket and the rounded outline cut with a 6 mm end mill.
func Plate() []Job {
	const (
		thickness  = 3.0
		safetyZ    = 10.0
		feedRate   = 640.0
		plungeRate = 200.0
		stepZ      = -1.0
		mill       = 6.0
	)

	drills := Job{Name: "A_ExamplePlate_x1_y1_drill3.0_s7000"}
	for _, pt := range []geometry.Point{
		{X: -8.5, Y: -8.5}, {X: 8.5, Y: -8.5}, {X: 8.5, Y: 8.5}, {X: -8.5, Y: 8.5},
		{X: -19, Y: -19}, {X: 19, Y: -19}, {X: 19, Y: 19}, {X: -19, Y: 19},
		{X: -19, Y: 0}, {X: 0, Y: -19}, {X: 19, Y: 0}, {X: 0, Y: 19},
	} {
		drills.Operations = append(drills.Operations, Operation{
			Kind:     KindDrill,
			X:        gcode.V(pt.X),
			Y:        gcode.V(pt.Y),
			Depth:    gcode.V(-thickness - 1),
			SafetyZ:  gcode.V(safetyZ),
			FeedRate: gcode.V(plungeRate),
		})
	}

	milling := Job{
		Name: "B_ExamplePlate_x1_y1_mill6.0_s16000",
		Operations: []Operation{
			{
				Kind:         KindSquarePocket,
				XCenter:      gcode.V(0),
				YCenter:      gcode.V(0),
				XDimension:   gcode.V(25.1),
				YDimension:   gcode.V(25.1),
				ToolDiameter: gcode.V(mill),
				FeedRate:     gcode.V(feedRate),
				ZFeedRate:    gcode.V(plungeRate),
				FromZ:        gcode.V(0),
				ToZ:          gcode.V(-1.5),
				StepZ:        gcode.V(stepZ),
				SafetyZ:      gcode.V(safetyZ),
			},
			{
				Kind:         KindRoundedRectangle,
				XCenter:      gcode.V(0),
				YCenter:      gcode.V(0),
				XDimension:   gcode.V(50),
				YDimension:   gcode.V(50),
				CornerRadius: gcode.V(3),
				ToolDiameter: gcode.V(mill),
				FeedRate:     gcode.V(feedRate),
				ZFeedRate:    gcode.V(plungeRate),
				FromZ:        gcode.V(0),
				ToZ:          gcode.V(-thickness),
				StepZ:        gcode.V(stepZ),
				SafetyZ:      gcode.V(safetyZ),
			},
		},
	}

	return []Job{drills, milling}
}
