package job

import (
	"golang.org/x/xerrors"

	"millgen/pkg/cfg"
	"millgen/pkg/gcode"
	"millgen/pkg/geometry"
	"millgen/pkg/svgpath"
	"millgen/pkg/toolpath"
)

// Operation kinds.
const (
	KindRectangle          = "rectangle"
	KindRoundedRectangle   = "rounded_rectangle"
	KindOval               = "oval"
	KindPath               = "path"
	KindThin               = "thin"
	KindThinFromCenter     = "thin_from_center"
	KindSquarePocket       = "square_pocket"
	KindHole               = "hole"
	KindFullHole           = "full_hole"
	KindTwoConcentricHoles = "two_concentric_holes"
	KindCylinder           = "cylinder"
	KindDrill              = "drill"
	KindDrillChipBreak     = "drill_chip_break"
	KindDrillPeck          = "drill_peck"
)

// Operation is one shape of a job. Which fields apply depends on Kind; a
// field left out of the job file stays unset. Unset positions and angles
// are 0, unset machine parameters come from the settings, and an unset
// dimension fails with toolpath.ErrMissingParameter.
type Operation struct {
	Kind string `yaml:"kind"`

	X              gcode.Value `yaml:"x"`
	Y              gcode.Value `yaml:"y"`
	XCenter        gcode.Value `yaml:"x_center"`
	YCenter        gcode.Value `yaml:"y_center"`
	XMin           gcode.Value `yaml:"x_min"`
	YMin           gcode.Value `yaml:"y_min"`
	XDimension     gcode.Value `yaml:"x_dimension"`
	YDimension     gcode.Value `yaml:"y_dimension"`
	Width          gcode.Value `yaml:"width"`
	Height         gcode.Value `yaml:"height"`
	Angle          gcode.Value `yaml:"angle"`
	CornerRadius   gcode.Value `yaml:"corner_radius"`
	Diameter       gcode.Value `yaml:"diameter"`
	Diameter1      gcode.Value `yaml:"diameter_1"`
	Diameter2      gcode.Value `yaml:"diameter_2"`
	CenterDiameter gcode.Value `yaml:"center_diameter"`
	Depth          gcode.Value `yaml:"depth"`
	Increment      gcode.Value `yaml:"increment"`

	// Path waypoints, given as points or as SVG path data, optionally
	// transformed by an SVG transform list and simplified within the given
	// tolerance.
	Waypoints []geometry.Point `yaml:"waypoints"`
	D         string           `yaml:"d"`
	Transform string           `yaml:"transform"`
	Simplify  gcode.Value      `yaml:"simplify"`

	ToolDiameter  gcode.Value `yaml:"tool_diameter"`
	FeedRate      gcode.Value `yaml:"feed_rate"`
	ZFeedRate     gcode.Value `yaml:"z_feed_rate"`
	SafetyZ       gcode.Value `yaml:"safety_z"`
	FromZ         gcode.Value `yaml:"from_z"`
	ToZ           gcode.Value `yaml:"to_z"`
	StepZ         gcode.Value `yaml:"step_z"`
	IntermediateZ gcode.Value `yaml:"intermediate_z"`
}

// Build renders the operation with missing machine parameters taken from s.
func (op Operation) Build(s cfg.Settings) (gcode.Block, error) {
	build, ok := builders[op.Kind]
	if !ok {
		return nil, xerrors.Errorf("%w: unknown kind %q", ErrInvalidJob, op.Kind)
	}
	return build(op, s)
}

// fields reads operation fields and keeps the first missing one.
type fields struct {
	err error
}

func (f *fields) need(name string, v gcode.Value) float64 {
	n, ok := v.Float()
	if !ok && f.err == nil {
		f.err = xerrors.Errorf("%s not given: %w", name, toolpath.ErrMissingParameter)
	}
	return n
}

func or(v gcode.Value, def float64) float64 {
	n, _ := v.Or(gcode.V(def)).Float()
	return n
}

func (op Operation) cut(s cfg.Settings) toolpath.Cut {
	return toolpath.Cut{
		ToolDiameter: or(op.ToolDiameter, s.ToolDiameter),
		FeedRate:     or(op.FeedRate, s.FeedRate),
		ZFeedRate:    or(op.ZFeedRate, s.ZFeedRate),
		SafetyZ:      or(op.SafetyZ, s.SafetyZ),
		Passes: toolpath.Passes{
			From: op.FromZ,
			To:   op.ToZ,
			Step: op.StepZ.Or(gcode.V(s.StepZ)),
		},
	}
}

// drill reads a drill operation. Drilling feeds at the plunge rate unless
// the operation sets feed_rate.
func (op Operation) drill(s cfg.Settings) (toolpath.Drill, error) {
	var f fields
	d := toolpath.Drill{
		X:         f.need("x", op.X),
		Y:         f.need("y", op.Y),
		Depth:     f.need("depth", op.Depth),
		Increment: or(op.Increment, 0),
		SafetyZ:   or(op.SafetyZ, s.SafetyZ),
		FeedRate:  or(op.FeedRate, s.ZFeedRate),
	}
	return d, f.err
}

// pathError is a path data or transform error. It matches both its cause
// and toolpath.ErrWrongParameter.
type pathError struct {
	err error
}

func (e pathError) Error() string {
	return e.err.Error()
}

func (e pathError) Unwrap() error {
	return e.err
}

func (e pathError) Is(target error) bool {
	return target == toolpath.ErrWrongParameter
}

// paths returns the polylines to follow: the listed waypoints, or each sub
// path of the path data.
func (op Operation) paths() ([]geometry.Polyline, error) {
	if len(op.Waypoints) > 0 && op.D != "" {
		return nil, xerrors.Errorf("path has both waypoints and path data: %w", toolpath.ErrWrongParameter)
	}

	polylines := []geometry.Polyline{op.Waypoints}
	if op.D != "" {
		var err error
		polylines, err = svgpath.Parse(op.D)
		if err != nil {
			return nil, pathError{err}
		}
	}
	m, err := svgpath.ParseTransform(op.Transform)
	if err != nil {
		return nil, pathError{err}
	}
	polylines = m.TransformPaths(polylines)

	tolerance, simplify := op.Simplify.Float()
	if simplify && !(tolerance >= 0) {
		return nil, xerrors.Errorf("simplify tolerance %s must not be negative: %w",
			gcode.FormatNumber(tolerance), toolpath.ErrWrongParameter)
	}

	var paths []geometry.Polyline
	for _, polyline := range polylines {
		if len(polyline) == 0 {
			continue
		}
		if simplify {
			polyline = polyline.Simplify(tolerance)
		}
		paths = append(paths, polyline)
	}
	return paths, nil
}

var builders = map[string]func(Operation, cfg.Settings) (gcode.Block, error){
	KindRectangle: func(op Operation, s cfg.Settings) (gcode.Block, error) {
		var f fields
		r := toolpath.Rectangle{
			XDimension: f.need("x_dimension", op.XDimension),
			YDimension: f.need("y_dimension", op.YDimension),
			XMin:       or(op.XMin, 0),
			YMin:       or(op.YMin, 0),
			Cut:        op.cut(s),
		}
		if f.err != nil {
			return nil, f.err
		}
		return toolpath.MillRectangle(r)
	},
	KindRoundedRectangle: func(op Operation, s cfg.Settings) (gcode.Block, error) {
		var f fields
		r := toolpath.RoundedRectangle{
			XCenter:      or(op.XCenter, 0),
			YCenter:      or(op.YCenter, 0),
			XDimension:   f.need("x_dimension", op.XDimension),
			YDimension:   f.need("y_dimension", op.YDimension),
			CornerRadius: f.need("corner_radius", op.CornerRadius),
			Cut:          op.cut(s),
		}
		if f.err != nil {
			return nil, f.err
		}
		return toolpath.MillRoundedRectangle(r)
	},
	KindOval: func(op Operation, s cfg.Settings) (gcode.Block, error) {
		var f fields
		o := toolpath.Oval{
			XCenter: or(op.XCenter, 0),
			YCenter: or(op.YCenter, 0),
			Width:   f.need("width", op.Width),
			Height:  f.need("height", op.Height),
			Angle:   or(op.Angle, 0),
			Cut:     op.cut(s),
		}
		if f.err != nil {
			return nil, f.err
		}
		return toolpath.MillOval(o)
	},
	KindPath: func(op Operation, s cfg.Settings) (gcode.Block, error) {
		paths, err := op.paths()
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return toolpath.FollowPath(toolpath.Path{Cut: op.cut(s)})
		}
		// Each sub path is milled on its own, retracting in between.
		var b gcode.Block
		for _, waypoints := range paths {
			block, err := toolpath.FollowPath(toolpath.Path{Waypoints: waypoints, Cut: op.cut(s)})
			if err != nil {
				return nil, err
			}
			b.Append(block)
		}
		return b, nil
	},
	KindThin: func(op Operation, s cfg.Settings) (gcode.Block, error) {
		var f fields
		t := toolpath.Thin{
			XDimension: f.need("x_dimension", op.XDimension),
			YDimension: f.need("y_dimension", op.YDimension),
			XMin:       or(op.XMin, 0),
			YMin:       or(op.YMin, 0),
			Cut:        op.cut(s),
		}
		if f.err != nil {
			return nil, f.err
		}
		return toolpath.MillThin(t)
	},
	KindThinFromCenter: func(op Operation, s cfg.Settings) (gcode.Block, error) {
		var f fields
		t := toolpath.CenteredThin{
			XDimension: f.need("x_dimension", op.XDimension),
			YDimension: f.need("y_dimension", op.YDimension),
			XCenter:    or(op.XCenter, 0),
			YCenter:    or(op.YCenter, 0),
			Cut:        op.cut(s),
		}
		if f.err != nil {
			return nil, f.err
		}
		return toolpath.MillThinFromCenter(t)
	},
	KindSquarePocket: func(op Operation, s cfg.Settings) (gcode.Block, error) {
		var f fields
		p := toolpath.SquarePocket{
			XCenter:    or(op.XCenter, 0),
			YCenter:    or(op.YCenter, 0),
			XDimension: f.need("x_dimension", op.XDimension),
			YDimension: f.need("y_dimension", op.YDimension),
			Cut:        op.cut(s),
		}
		if f.err != nil {
			return nil, f.err
		}
		return toolpath.MillSquarePocket(p)
	},
	KindHole: func(op Operation, s cfg.Settings) (gcode.Block, error) {
		var f fields
		h := toolpath.Hole{
			XCenter:  or(op.XCenter, 0),
			YCenter:  or(op.YCenter, 0),
			Diameter: f.need("diameter", op.Diameter),
			Cut:      op.cut(s),
		}
		if f.err != nil {
			return nil, f.err
		}
		return toolpath.MillHole(h)
	},
	KindFullHole: func(op Operation, s cfg.Settings) (gcode.Block, error) {
		var f fields
		h := toolpath.FullHole{
			XCenter:        or(op.XCenter, 0),
			YCenter:        or(op.YCenter, 0),
			Diameter:       f.need("diameter", op.Diameter),
			CenterDiameter: or(op.CenterDiameter, 0),
			Cut:            op.cut(s),
		}
		if f.err != nil {
			return nil, f.err
		}
		return toolpath.MillFullHole(h)
	},
	KindTwoConcentricHoles: func(op Operation, s cfg.Settings) (gcode.Block, error) {
		var f fields
		h := toolpath.ConcentricHoles{
			XCenter:       or(op.XCenter, 0),
			YCenter:       or(op.YCenter, 0),
			Diameter1:     f.need("diameter_1", op.Diameter1),
			Diameter2:     f.need("diameter_2", op.Diameter2),
			IntermediateZ: op.IntermediateZ,
			Cut:           op.cut(s),
		}
		if f.err != nil {
			return nil, f.err
		}
		return toolpath.MillConcentricHoles(h)
	},
	KindCylinder: func(op Operation, s cfg.Settings) (gcode.Block, error) {
		var f fields
		c := toolpath.Cylinder{
			XCenter:  or(op.XCenter, 0),
			YCenter:  or(op.YCenter, 0),
			Diameter: f.need("diameter", op.Diameter),
			Cut:      op.cut(s),
		}
		if f.err != nil {
			return nil, f.err
		}
		return toolpath.MillCylinder(c)
	},
	KindDrill: func(op Operation, s cfg.Settings) (gcode.Block, error) {
		d, err := op.drill(s)
		if err != nil {
			return nil, err
		}
		return toolpath.DrillSimple(d)
	},
	KindDrillChipBreak: func(op Operation, s cfg.Settings) (gcode.Block, error) {
		d, err := op.drill(s)
		if err != nil {
			return nil, err
		}
		return toolpath.DrillChipBreak(d)
	},
	KindDrillPeck: func(op Operation, s cfg.Settings) (gcode.Block, error) {
		d, err := op.drill(s)
		if err != nil {
			return nil, err
		}
		return toolpath.DrillPeck(d)
	},
}
