package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/xformsync/internal/binding"
	"github.com/Faultbox/xformsync/internal/config"
	"github.com/Faultbox/xformsync/internal/logger"
	"github.com/Faultbox/xformsync/internal/session"
	"github.com/Faultbox/xformsync/internal/transform"
	"github.com/Faultbox/xformsync/pkg/math"
	"github.com/Faultbox/xformsync/pkg/scene"
	"github.com/Faultbox/xformsync/pkg/xformstack"
)

var errUsage = errors.New("invalid arguments")

func cmdInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: xformtool info <stage.yaml>", errUsage)
	}
	stage, err := scene.LoadStage(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Stage:  %s\n", args[0])
	fmt.Printf("Frames: %g - %g\n", stage.StartTime, stage.EndTime)
	fmt.Printf("Prims:  %d\n", len(stage.Prims()))

	for _, p := range stage.Prims() {
		fmt.Println()
		fmt.Printf("%s\n", p.Path())
		if p.ResetsXformStack() {
			fmt.Println("  resets xform stack")
		}
		ops, _ := p.OrderedOps()
		for _, op := range ops {
			fmt.Printf("  %-48s %-9s samples=%d\n", op.Name(), op.TypeName(), op.NumTimeSamples())
		}
		if p.MightBeTimeVarying() {
			fmt.Println("  animated")
		}
	}
	return nil
}

func cmdMatch(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: xformtool match <stage.yaml>", errUsage)
	}
	stage, err := scene.LoadStage(args[0])
	if err != nil {
		return err
	}

	for _, p := range stage.Prims() {
		ops, _ := p.OrderedOps()
		r := xformstack.Match(ops)
		fmt.Printf("%s: %s (rotate order %s)\n", p.Path(), r.Schema, r.RotationOrder)
		for i, op := range ops {
			fmt.Printf("  %-48s %s\n", op.Name(), r.Classes[i])
		}
	}
	return nil
}

func cmdMatrix(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: xformtool matrix <stage.yaml> <prim>", errUsage)
	}
	tc, err := cfg.Stage.TimeCode()
	if err != nil {
		return err
	}
	m, err := newManager(cfg, false)
	if err != nil {
		return err
	}
	defer m.Close()

	n, err := m.Node(args[0], args[1])
	if err != nil {
		return err
	}
	return n.Do(func(node *binding.TransformNode) error {
		if !tc.IsDefault() {
			if err := node.UpdateToTime(tc); err != nil {
				return err
			}
		}
		local, err := n.Prim().LocalTransformation(tc)
		if err != nil {
			return err
		}
		engine := node.Engine()

		fmt.Printf("%s at %s, schema %s\n", n.Prim().Path(), tc, engine.Schema())
		fmt.Println()
		fmt.Println("Prim matrix:")
		printMatrix(local)
		fmt.Println("Engine matrix:")
		printMatrix(node.Matrix())
		if !local.ApproxEqual(node.Matrix(), 1e-5) {
			fmt.Println("  (matrices differ)")
		}
		fmt.Println()

		v := engine.Values()
		for _, c := range transform.Components {
			x := transform.Vec3(v, c)
			if c == transform.Rotate || c == transform.RotateOrientation {
				x = degrees(x)
			}
			flags := ""
			if engine.PrimHas(c) {
				flags += " op"
			}
			if engine.IsAnimated(c) {
				flags += " animated"
			}
			fmt.Printf("  %-22s %10.4f %10.4f %10.4f%s\n", c, x.X, x.Y, x.Z, flags)
		}
		fmt.Printf("  %-22s %s\n", "rotationOrder", v.Rotation.Order)
		return nil
	})
}

func cmdSet(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	output := fs.String("o", cfg.Stage.Output, "Output stage file (default: overwrite input)")
	fs.Parse(args)

	if fs.NArg() < 6 {
		return fmt.Errorf("%w: xformtool set <stage.yaml> <prim> <component> <x> <y> <z>", errUsage)
	}
	c, ok := transform.ParseComponent(fs.Arg(2))
	if !ok {
		return fmt.Errorf("%w: unknown component %q", errUsage, fs.Arg(2))
	}
	var v math.Vec3
	var err error
	for i, dst := range []*float64{&v.X, &v.Y, &v.Z} {
		if *dst, err = strconv.ParseFloat(fs.Arg(3+i), 64); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
	}
	if c == transform.Rotate || c == transform.RotateOrientation {
		v = radians(v)
	}

	m, err := newManager(cfg, true)
	if err != nil {
		return err
	}
	defer m.Close()

	n, err := m.Node(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}
	err = n.Do(func(node *binding.TransformNode) error {
		if !node.Engine().PushToPrimEnabled() {
			logger.Warn("prim is animated, edit is not written",
				zap.String("prim", n.Prim().Path()))
		}
		binding.WriteComponent(node.Host(), c, v)
		return node.ComponentChanged(c)
	})
	if err != nil {
		return err
	}

	if err := m.Save(fs.Arg(0), *output); err != nil {
		return err
	}
	fmt.Printf("%s: %s set, op order %v\n", n.Prim().Path(), c, n.Prim().OpOrder())
	return nil
}

func cmdNormalize(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("normalize", flag.ExitOnError)
	output := fs.String("o", cfg.Stage.Output, "Output stage file (default: overwrite input)")
	fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("%w: xformtool normalize <stage.yaml> <prim>", errUsage)
	}
	tc, err := cfg.Stage.TimeCode()
	if err != nil {
		return err
	}
	precision, _ := scene.ParsePrecision(cfg.Engine.InsertPrecision)

	m, err := newManager(cfg, false)
	if err != nil {
		return err
	}
	defer m.Close()

	n, err := m.Node(fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}
	err = n.Do(func(node *binding.TransformNode) error {
		if !tc.IsDefault() {
			if err := node.UpdateToTime(tc); err != nil {
				return err
			}
		}

		// The host holds every component after binding, whatever the schema.
		host := node.Host()
		v := node.Engine().Values()
		for _, c := range transform.Components {
			binding.WriteComponent(host, c, transform.Vec3(v, c))
		}
		node.Unbind()
		return binding.ExportTransform(host, n.Prim(), tc, precision)
	})
	if err != nil {
		return err
	}

	if err := m.Save(fs.Arg(0), *output); err != nil {
		return err
	}
	fmt.Printf("%s: %v\n", n.Prim().Path(), n.Prim().OpOrder())
	return nil
}

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			return err
		}
		fmt.Printf("Saved config to %s\n", args[0])
		return nil
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// newManager returns a session whose nodes use the configured engine
// options. push forces pushing edits regardless of the configuration.
func newManager(cfg *config.Config, push bool) (*session.Manager, error) {
	opts, err := cfg.Engine.Options()
	if err != nil {
		return nil, err
	}
	if push {
		opts = append(opts, transform.WithPushToPrim(true))
	}
	return session.NewManager(opts...), nil
}

func printMatrix(m math.Mat4) {
	for _, row := range m {
		fmt.Printf("  %10.4f %10.4f %10.4f %10.4f\n", row[0], row[1], row[2], row[3])
	}
}

func degrees(v math.Vec3) math.Vec3 {
	return math.Vec3{X: math.RadToDeg(v.X), Y: math.RadToDeg(v.Y), Z: math.RadToDeg(v.Z)}
}

func radians(v math.Vec3) math.Vec3 {
	return math.Vec3{X: math.DegToRad(v.X), Y: math.DegToRad(v.Y), Z: math.DegToRad(v.Z)}
}
