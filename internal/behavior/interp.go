package behavior

import (
	"fmt"
	"math"

	"bot-brawl/server/internal/geom"
)

type valueKind uint8

const (
	kindNil valueKind = iota
	kindNumber
	kindBool
	kindString
	kindPoint
	kindAPI
	kindMethod
)

// value is the interpreter's tagged union. Points are the only compound value
// behavior code can observe; they are copies, never references into engine
// state.
type value struct {
	kind   valueKind
	num    float64
	b      bool
	str    string
	point  geom.Vec2
	method string
}

func numberValue(n float64) value  { return value{kind: kindNumber, num: n} }
func boolValue(b bool) value       { return value{kind: kindBool, b: b} }
func pointValue(p geom.Vec2) value { return value{kind: kindPoint, point: p} }

func (v value) kindName() string {
	switch v.kind {
	case kindNumber:
		return "number"
	case kindBool:
		return "boolean"
	case kindString:
		return "string"
	case kindPoint:
		return "point"
	case kindAPI:
		return "api"
	case kindMethod:
		return "method"
	default:
		return "nil"
	}
}

type interp struct {
	api    API
	tick   uint64
	budget int
	steps  int
	vars   map[string]value
}

func (in *interp) fault(line int, format string, args ...any) error {
	return &RuntimeError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// step charges one unit against the invocation budget.
func (in *interp) step(line int) error {
	in.steps++
	if in.steps > in.budget {
		return &RuntimeError{Line: line, Msg: fmt.Sprintf("step budget of %d exceeded", in.budget)}
	}
	return nil
}

func (in *interp) exec(s stmt) error {
	switch node := s.(type) {
	case *letStmt:
		if err := in.step(node.line); err != nil {
			return err
		}
		if node.name == "api" || node.name == "tick" {
			return in.fault(node.line, "cannot shadow %q", node.name)
		}
		v, err := in.eval(node.init)
		if err != nil {
			return err
		}
		in.vars[node.name] = v
		return nil
	case *assignStmt:
		if err := in.step(node.line); err != nil {
			return err
		}
		if _, ok := in.vars[node.name]; !ok {
			return in.fault(node.line, "assignment to undeclared variable %q", node.name)
		}
		v, err := in.eval(node.value)
		if err != nil {
			return err
		}
		in.vars[node.name] = v
		return nil
	case *ifStmt:
		if err := in.step(node.line); err != nil {
			return err
		}
		cond, err := in.eval(node.cond)
		if err != nil {
			return err
		}
		if cond.kind != kindBool {
			return in.fault(node.line, "if condition must be a boolean, got %s", cond.kindName())
		}
		branch := node.then
		if !cond.b {
			branch = node.alt
		}
		for _, nested := range branch {
			if err := in.exec(nested); err != nil {
				return err
			}
		}
		return nil
	case *exprStmt:
		if err := in.step(node.line); err != nil {
			return err
		}
		_, err := in.eval(node.value)
		return err
	default:
		return in.fault(0, "unknown statement")
	}
}

func (in *interp) eval(e expr) (value, error) {
	if err := in.step(e.location()); err != nil {
		return value{}, err
	}
	switch node := e.(type) {
	case *numberLit:
		return numberValue(node.value), nil
	case *boolLit:
		return boolValue(node.value), nil
	case *stringLit:
		return value{kind: kindString, str: node.value}, nil
	case *identExpr:
		switch node.name {
		case "api":
			return value{kind: kindAPI}, nil
		case "tick":
			return numberValue(float64(in.tick)), nil
		}
		if v, ok := in.vars[node.name]; ok {
			return v, nil
		}
		return value{}, in.fault(node.line, "unknown identifier %q", node.name)
	case *memberExpr:
		return in.evalMember(node)
	case *callExpr:
		return in.evalCall(node)
	case *unaryExpr:
		return in.evalUnary(node)
	case *binaryExpr:
		return in.evalBinary(node)
	default:
		return value{}, in.fault(e.location(), "unknown expression")
	}
}

func (in *interp) evalMember(node *memberExpr) (value, error) {
	object, err := in.eval(node.object)
	if err != nil {
		return value{}, err
	}
	switch object.kind {
	case kindAPI:
		return value{kind: kindMethod, method: node.field}, nil
	case kindPoint:
		switch node.field {
		case "x":
			return numberValue(object.point.X), nil
		case "y":
			return numberValue(object.point.Y), nil
		}
		return value{}, in.fault(node.line, "point has no field %q", node.field)
	default:
		return value{}, in.fault(node.line, "%s has no fields", object.kindName())
	}
}

func (in *interp) evalUnary(node *unaryExpr) (value, error) {
	operand, err := in.eval(node.operand)
	if err != nil {
		return value{}, err
	}
	switch node.op {
	case tokenMinus:
		if operand.kind != kindNumber {
			return value{}, in.fault(node.line, "unary '-' needs a number, got %s", operand.kindName())
		}
		return numberValue(-operand.num), nil
	case tokenBang:
		if operand.kind != kindBool {
			return value{}, in.fault(node.line, "'!' needs a boolean, got %s", operand.kindName())
		}
		return boolValue(!operand.b), nil
	}
	return value{}, in.fault(node.line, "unknown unary operator")
}

func (in *interp) evalBinary(node *binaryExpr) (value, error) {
	// && and || short-circuit.
	if node.op == tokenAnd || node.op == tokenOr {
		left, err := in.eval(node.left)
		if err != nil {
			return value{}, err
		}
		if left.kind != kindBool {
			return value{}, in.fault(node.line, "logical operator needs booleans, got %s", left.kindName())
		}
		if node.op == tokenAnd && !left.b {
			return boolValue(false), nil
		}
		if node.op == tokenOr && left.b {
			return boolValue(true), nil
		}
		right, err := in.eval(node.right)
		if err != nil {
			return value{}, err
		}
		if right.kind != kindBool {
			return value{}, in.fault(node.line, "logical operator needs booleans, got %s", right.kindName())
		}
		return boolValue(right.b), nil
	}

	left, err := in.eval(node.left)
	if err != nil {
		return value{}, err
	}
	right, err := in.eval(node.right)
	if err != nil {
		return value{}, err
	}

	if node.op == tokenEqual || node.op == tokenNotEqual {
		eq, err := in.valuesEqual(left, right, node.line)
		if err != nil {
			return value{}, err
		}
		if node.op == tokenNotEqual {
			eq = !eq
		}
		return boolValue(eq), nil
	}

	if left.kind != kindNumber || right.kind != kindNumber {
		return value{}, in.fault(node.line, "operator needs numbers, got %s and %s", left.kindName(), right.kindName())
	}
	a, b := left.num, right.num
	switch node.op {
	case tokenPlus:
		return numberValue(a + b), nil
	case tokenMinus:
		return numberValue(a - b), nil
	case tokenStar:
		return numberValue(a * b), nil
	case tokenSlash:
		if b == 0 {
			return value{}, in.fault(node.line, "division by zero")
		}
		return numberValue(a / b), nil
	case tokenPercent:
		if b == 0 {
			return value{}, in.fault(node.line, "modulo by zero")
		}
		return numberValue(math.Mod(a, b)), nil
	case tokenLess:
		return boolValue(a < b), nil
	case tokenLessEqual:
		return boolValue(a <= b), nil
	case tokenGreater:
		return boolValue(a > b), nil
	case tokenGreaterEqual:
		return boolValue(a >= b), nil
	}
	return value{}, in.fault(node.line, "unknown operator")
}

func (in *interp) valuesEqual(a, b value, line int) (bool, error) {
	if a.kind != b.kind {
		return false, nil
	}
	switch a.kind {
	case kindNumber:
		return a.num == b.num, nil
	case kindBool:
		return a.b == b.b, nil
	case kindString:
		return a.str == b.str, nil
	case kindPoint:
		return a.point == b.point, nil
	default:
		return false, in.fault(line, "cannot compare %s values", a.kindName())
	}
}

func (in *interp) evalCall(node *callExpr) (value, error) {
	callee, err := in.eval(node.callee)
	if err != nil {
		return value{}, err
	}
	if callee.kind != kindMethod {
		return value{}, in.fault(node.line, "%s is not callable", callee.kindName())
	}
	args := make([]value, len(node.args))
	for i, argExpr := range node.args {
		arg, err := in.eval(argExpr)
		if err != nil {
			return value{}, err
		}
		args[i] = arg
	}
	return in.dispatch(callee.method, args, node.line)
}

func (in *interp) dispatch(name string, args []value, line int) (value, error) {
	switch name {
	// Sensing.
	case "getPosition":
		if err := in.arity(name, args, 0, line); err != nil {
			return value{}, err
		}
		return pointValue(in.api.OwnPosition()), nil
	case "getAngle":
		if err := in.arity(name, args, 0, line); err != nil {
			return value{}, err
		}
		return numberValue(in.api.OwnAngle()), nil
	case "getHealth":
		if err := in.arity(name, args, 0, line); err != nil {
			return value{}, err
		}
		return numberValue(in.api.OwnHealth()), nil
	case "getVelocity":
		if err := in.arity(name, args, 0, line); err != nil {
			return value{}, err
		}
		return pointValue(in.api.OwnVelocity()), nil
	case "getEnemyPosition":
		if err := in.arity(name, args, 0, line); err != nil {
			return value{}, err
		}
		return pointValue(in.api.EnemyPosition()), nil
	case "getEnemyHealth":
		if err := in.arity(name, args, 0, line); err != nil {
			return value{}, err
		}
		return numberValue(in.api.EnemyHealth()), nil
	case "getDistanceToEnemy":
		if err := in.arity(name, args, 0, line); err != nil {
			return value{}, err
		}
		return numberValue(in.api.DistanceToEnemy()), nil
	case "getArenaWidth":
		if err := in.arity(name, args, 0, line); err != nil {
			return value{}, err
		}
		return numberValue(in.api.ArenaWidth()), nil
	case "getArenaHeight":
		if err := in.arity(name, args, 0, line); err != nil {
			return value{}, err
		}
		return numberValue(in.api.ArenaHeight()), nil

	// Intent recording.
	case "moveToward", "moveAway":
		target, speed, err := in.moveArgs(name, args, line)
		if err != nil {
			return value{}, err
		}
		if name == "moveToward" {
			in.api.MoveToward(target, speed)
		} else {
			in.api.MoveAway(target, speed)
		}
		return value{}, nil
	case "rotateTo":
		angle, err := in.numberArg(name, args, 0, 1, line)
		if err != nil {
			return value{}, err
		}
		in.api.RotateTo(angle)
		return value{}, nil
	case "attack":
		if err := in.arity(name, args, 0, line); err != nil {
			return value{}, err
		}
		in.api.Attack()
		return value{}, nil
	case "strafe":
		if len(args) != 1 {
			return value{}, in.fault(line, "strafe expects 1 argument, got %d", len(args))
		}
		direction, err := in.strafeDirection(args[0], line)
		if err != nil {
			return value{}, err
		}
		in.api.Strafe(direction)
		return value{}, nil
	case "stop":
		if err := in.arity(name, args, 0, line); err != nil {
			return value{}, err
		}
		in.api.Stop()
		return value{}, nil

	// Utilities. angleTo and distanceTo are pure and computed here.
	case "angleTo":
		target, err := in.pointArg(name, args, 0, 1, line)
		if err != nil {
			return value{}, err
		}
		return numberValue(in.api.OwnPosition().AngleTo(target)), nil
	case "distanceTo":
		target, err := in.pointArg(name, args, 0, 1, line)
		if err != nil {
			return value{}, err
		}
		return numberValue(in.api.OwnPosition().DistanceTo(target)), nil
	case "random":
		if len(args) != 2 {
			return value{}, in.fault(line, "random expects 2 arguments, got %d", len(args))
		}
		if args[0].kind != kindNumber || args[1].kind != kindNumber {
			return value{}, in.fault(line, "random expects numbers")
		}
		return numberValue(in.api.Random(args[0].num, args[1].num)), nil
	}
	return value{}, in.fault(line, "api has no method %q", name)
}

func (in *interp) moveArgs(name string, args []value, line int) (geom.Vec2, float64, error) {
	if len(args) != 1 && len(args) != 2 {
		return geom.Vec2{}, 0, in.fault(line, "%s expects 1 or 2 arguments, got %d", name, len(args))
	}
	if args[0].kind != kindPoint {
		return geom.Vec2{}, 0, in.fault(line, "%s expects a point target, got %s", name, args[0].kindName())
	}
	speed := 0.0
	if len(args) == 2 {
		if args[1].kind != kindNumber {
			return geom.Vec2{}, 0, in.fault(line, "%s speed must be a number, got %s", name, args[1].kindName())
		}
		speed = args[1].num
	}
	return args[0].point, speed, nil
}

func (in *interp) strafeDirection(arg value, line int) (float64, error) {
	switch arg.kind {
	case kindNumber:
		if arg.num < 0 {
			return -1, nil
		}
		return 1, nil
	case kindString:
		switch arg.str {
		case "left":
			return -1, nil
		case "right":
			return 1, nil
		}
		return 0, in.fault(line, "strafe direction must be \"left\" or \"right\", got %q", arg.str)
	default:
		return 0, in.fault(line, "strafe expects a number or string, got %s", arg.kindName())
	}
}

func (in *interp) arity(name string, args []value, want int, line int) error {
	if len(args) != want {
		return in.fault(line, "%s expects %d arguments, got %d", name, want, len(args))
	}
	return nil
}

func (in *interp) numberArg(name string, args []value, index, want int, line int) (float64, error) {
	if len(args) != want {
		return 0, in.fault(line, "%s expects %d argument(s), got %d", name, want, len(args))
	}
	if args[index].kind != kindNumber {
		return 0, in.fault(line, "%s expects a number, got %s", name, args[index].kindName())
	}
	return args[index].num, nil
}

func (in *interp) pointArg(name string, args []value, index, want int, line int) (geom.Vec2, error) {
	if len(args) != want {
		return geom.Vec2{}, in.fault(line, "%s expects %d argument(s), got %d", name, want, len(args))
	}
	if args[index].kind != kindPoint {
		return geom.Vec2{}, in.fault(line, "%s expects a point, got %s", name, args[index].kindName())
	}
	return args[index].point, nil
}
