package types

import "testing"

func TestModelTypeNames(t *testing.T) {
	for name, want := range map[string]ModelType{
		"linear":     ModelLinear,
		"deming":     ModelLinear,
		"paraboloid": ModelParaboloid,
		"poly3":      ModelCubic,
		"quartic":    ModelUnknown,
	} {
		if got := GetModelType(name); got != want {
			t.Errorf("GetModelType(%q) = %v, want %v", name, got, want)
		}
	}
	if ModelCubic.String() != "cubic" {
		t.Errorf("String() = %q", ModelCubic.String())
	}
	var m ModelType
	if err := m.UnmarshalText([]byte("paraboloid")); err != nil || m != ModelParaboloid {
		t.Errorf("UnmarshalText: %v %v", m, err)
	}
	if err := m.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("UnmarshalText should reject unknown names")
	}
}

func TestModelTypeNumParams(t *testing.T) {
	cases := []struct {
		model   ModelType
		numVars int
		want    int
	}{
		{ModelLinear, 1, 2},
		{ModelLinear, 2, 0},
		{ModelParaboloid, 1, 3},
		{ModelParaboloid, 2, 6},
		{ModelParaboloid, 3, 10},
		{ModelCubic, 1, 4},
		{ModelCubic, 3, 0},
		{ModelParaboloid, 4, 0},
		{ModelUnknown, 1, 0},
	}
	for _, tc := range cases {
		if got := tc.model.NumParams(tc.numVars); got != tc.want {
			t.Errorf("%v.NumParams(%d) = %d, want %d", tc.model, tc.numVars, got, tc.want)
		}
	}
}

func TestDataTypeAndPlotMode(t *testing.T) {
	if GetDataType("chisq") != DataChisq || GetDataType("x") != DataUnknown {
		t.Error("GetDataType mismatch")
	}
	if m, ok := GetPlotMode("2d"); !ok || m != Plot2D {
		t.Errorf("GetPlotMode(2d) = %v %v", m, ok)
	}
	if _, ok := GetPlotMode("3d"); ok {
		t.Error("GetPlotMode(3d) should fail")
	}
	if Plot1D.String() != "1d" {
		t.Errorf("Plot1D.String() = %q", Plot1D.String())
	}
}
