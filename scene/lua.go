package scene

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// RunLua executes a scene script; the script calls rect, circle and polygon to add bodies.
// Each builder takes the shape size, the position and an optional table of overrides
// (profile, static, mass, restitution, friction, vx, vy) and returns the body's 1-based index.
//
//	rect(width, height, x, y [, opts])
//	circle(radius, x, y [, opts])
//	polygon({{x1, y1}, {x2, y2}, ...}, x, y [, opts])
func RunLua(src, name string) (*Spec, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	// Sandbox: no io, os or module loading
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, fn := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(fn, lua.LNil)
	}

	b := &luaBuilder{spec: &Spec{Name: name}}
	L.SetGlobal("rect", L.NewFunction(b.rect))
	L.SetGlobal("circle", L.NewFunction(b.circle))
	L.SetGlobal("polygon", L.NewFunction(b.polygon))

	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if err := b.spec.Validate(); err != nil {
		return nil, err
	}
	return b.spec, nil
}

type luaBuilder struct {
	spec *Spec
}

func (b *luaBuilder) rect(L *lua.LState) int {
	body := BodySpec{
		Shape:  ShapeRect,
		Width:  float64(L.CheckNumber(1)),
		Height: float64(L.CheckNumber(2)),
	}
	return b.add(L, body, 3)
}

func (b *luaBuilder) circle(L *lua.LState) int {
	body := BodySpec{
		Shape:  ShapeCircle,
		Radius: float64(L.CheckNumber(1)),
	}
	return b.add(L, body, 2)
}

func (b *luaBuilder) polygon(L *lua.LState) int {
	tbl := L.CheckTable(1)
	body := BodySpec{Shape: ShapePolygon}
	for i := 1; i <= tbl.Len(); i++ {
		pt, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			L.ArgError(1, fmt.Sprintf("vertex %d is not a table", i))
			return 0
		}
		x, xok := pt.RawGetInt(1).(lua.LNumber)
		y, yok := pt.RawGetInt(2).(lua.LNumber)
		if !xok || !yok {
			L.ArgError(1, fmt.Sprintf("vertex %d needs two numbers", i))
			return 0
		}
		body.Vertices = append(body.Vertices, Point{X: float64(x), Y: float64(y)})
	}
	return b.add(L, body, 2)
}

// add reads position at pos, pos+1 and the optional overrides table after it
func (b *luaBuilder) add(L *lua.LState, body BodySpec, pos int) int {
	body.Position = Point{
		X: float64(L.CheckNumber(pos)),
		Y: float64(L.CheckNumber(pos + 1)),
	}
	if opts := L.OptTable(pos+2, nil); opts != nil {
		applyLuaOptions(L, opts, &body)
	}

	if _, err := body.Polygon(); err != nil {
		L.RaiseError("body %d: %v", len(b.spec.Bodies), err)
		return 0
	}
	b.spec.Bodies = append(b.spec.Bodies, body)
	L.Push(lua.LNumber(len(b.spec.Bodies)))
	return 1
}

func applyLuaOptions(L *lua.LState, t *lua.LTable, body *BodySpec) {
	if v, ok := t.RawGetString("profile").(lua.LString); ok {
		body.Profile = string(v)
	}
	if v, ok := t.RawGetString("static").(lua.LBool); ok {
		static := bool(v)
		body.Static = &static
	}
	number := func(key string) *float64 {
		v, ok := t.RawGetString(key).(lua.LNumber)
		if !ok {
			return nil
		}
		f := float64(v)
		return &f
	}
	body.Mass = number("mass")
	body.Restitution = number("restitution")
	body.Friction = number("friction")
	if vx := number("vx"); vx != nil {
		body.Velocity.X = *vx
	}
	if vy := number("vy"); vy != nil {
		body.Velocity.Y = *vy
	}
	if body.Profile != "" {
		if _, err := body.Options(); err != nil {
			L.RaiseError("%v", err)
		}
	}
}
