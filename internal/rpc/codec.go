package rpc

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/policy"
)

// #region request
// Request carries the arguments of one Decide call.
type Request struct {
	Mine        []policy.Move
	Theirs      []policy.Move
	Mood        policy.Mood
	TotalRounds int
	Round       int
}

// EncodeRequest builds the wire form of r.
func EncodeRequest(r Request) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"my_history":       movesToList(r.Mine),
		"opponent_history": movesToList(r.Theirs),
		"mood":             string(r.Mood),
		"total_rounds":     float64(r.TotalRounds),
		"round":            float64(r.Round),
	})
}

// DecodeRequest reads a Request. Missing or mistyped fields are errors;
// value checks are left to the policy.
func DecodeRequest(s *structpb.Struct) (Request, error) {
	var r Request
	var err error
	f := s.GetFields()
	if r.Mine, err = listField(f, "my_history"); err != nil {
		return Request{}, err
	}
	if r.Theirs, err = listField(f, "opponent_history"); err != nil {
		return Request{}, err
	}
	mood, err := stringField(f, "mood")
	if err != nil {
		return Request{}, err
	}
	r.Mood = policy.Mood(mood)
	if r.TotalRounds, err = intField(f, "total_rounds"); err != nil {
		return Request{}, err
	}
	if r.Round, err = intField(f, "round"); err != nil {
		return Request{}, err
	}
	return r, nil
}

// #endregion request

// #region decision
// EncodeDecision builds the reply for d.
func EncodeDecision(d policy.Decision) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"move":  string(d.Move),
		"mood":  string(d.Mood),
		"phase": string(d.Phase),
	})
}

// DecodeDecision reads a reply.
func DecodeDecision(s *structpb.Struct) (policy.Decision, error) {
	f := s.GetFields()
	move, err := stringField(f, "move")
	if err != nil {
		return policy.Decision{}, err
	}
	mood, err := stringField(f, "mood")
	if err != nil {
		return policy.Decision{}, err
	}
	phase, err := stringField(f, "phase")
	if err != nil {
		return policy.Decision{}, err
	}
	return policy.Decision{Move: policy.Move(move), Mood: policy.Mood(mood), Phase: policy.Phase(phase)}, nil
}

// #endregion decision

// #region fields
func movesToList(h []policy.Move) []any {
	out := make([]any, len(h))
	for i, m := range h {
		out[i] = string(m)
	}
	return out
}

func listField(f map[string]*structpb.Value, name string) ([]policy.Move, error) {
	v, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("field %s: missing", name)
	}
	lv, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("field %s: want list", name)
	}
	vals := lv.ListValue.GetValues()
	out := make([]policy.Move, len(vals))
	for i, e := range vals {
		sv, ok := e.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("field %s[%d]: want string", name, i)
		}
		out[i] = policy.Move(sv.StringValue)
	}
	return out, nil
}

func stringField(f map[string]*structpb.Value, name string) (string, error) {
	v, ok := f[name]
	if !ok {
		return "", fmt.Errorf("field %s: missing", name)
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %s: want string", name)
	}
	return sv.StringValue, nil
}

func intField(f map[string]*structpb.Value, name string) (int, error) {
	v, ok := f[name]
	if !ok {
		return 0, fmt.Errorf("field %s: missing", name)
	}
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %s: want number", name)
	}
	n := nv.NumberValue
	if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return 0, fmt.Errorf("field %s: %v is not an integer", name, n)
	}
	return int(n), nil
}

// #endregion fields
