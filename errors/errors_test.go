package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseExtract,
				Kind:   KindNotFound,
				Path:   []string{"world", "proxy"},
				Detail: "world \"proxy\" not found",
			},
			contains: []string{"[extract]", "not_found", "world.proxy", "proxy"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindMalformedBinary,
			},
			contains: []string{"[decode]", "malformed_binary"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseRegistry,
				Kind:   KindArtifactShapeMismatch,
				Detail: "two layers",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[registry]", "artifact_shape_mismatch", "two layers", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindMalformedBinary,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseExtract,
		Kind:  KindNotFound,
		Path:  []string{"package"},
	}

	if !err.Is(&Error{Phase: PhaseExtract, Kind: KindNotFound}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindNotFound}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseExtract, Kind: KindInvalidInput}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is should match the phaseless sentinel")
	}
	if errors.Is(err, ErrWrongArtifactShape) {
		t.Error("errors.Is should not match another sentinel")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("errors.Is should see through fmt wrapping")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseRegistry, KindArtifactShapeMismatch).
		Path("layers", "1").
		Value(2).
		Cause(cause).
		Detail("expected %d layer, found %d", 1, 2).
		Build()

	if err.Phase != PhaseRegistry {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseRegistry)
	}
	if err.Kind != KindArtifactShapeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindArtifactShapeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "layers" || err.Path[1] != "1" {
		t.Errorf("Path = %v, want [layers 1]", err.Path)
	}
	if err.Value != 2 {
		t.Errorf("Value = %v, want 2", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected 1 layer, found 2" {
		t.Errorf("Detail = %v, want 'expected 1 layer, found 2'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseExtract, "world", "proxy")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if err.Value != "proxy" {
			t.Errorf("Value = %v, want proxy", err.Value)
		}
	})

	t.Run("WrongArtifactShape", func(t *testing.T) {
		err := WrongArtifactShape("WIT package", "component", "use the package entry point")
		if err.Kind != KindWrongArtifactShape {
			t.Errorf("Kind = %v, want %v", err.Kind, KindWrongArtifactShape)
		}
		if !strings.Contains(err.Detail, "use the package entry point") {
			t.Errorf("Detail = %q, should carry the hint", err.Detail)
		}
	})

	t.Run("MalformedBinary", func(t *testing.T) {
		cause := errors.New("bad leb")
		err := MalformedBinary("read section", cause)
		if err.Phase != PhaseDecode || err.Kind != KindMalformedBinary {
			t.Errorf("got %v/%v, want decode/malformed_binary", err.Phase, err.Kind)
		}
		if !errors.Is(err, cause) {
			t.Error("cause should be reachable")
		}
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		err := ShapeMismatch("expected exactly one layer, found %d", 3)
		if err.Kind != KindArtifactShapeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindArtifactShapeMismatch)
		}
		if err.Detail != "expected exactly one layer, found 3" {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseConfig, "empty module")
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
	})
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"plain", errors.New("x"), ""},
		{"direct", NotFound(PhaseExtract, "package", "p"), KindNotFound},
		{"wrapped", fmt.Errorf("ctx: %w", ShapeMismatch("x")), KindArtifactShapeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
