package series

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-gw/detector"
	"github.com/cwbudde/algo-gw/gps"
	"github.com/cwbudde/algo-gw/unit"
)

func TestMetadataAbsentKeys(t *testing.T) {
	var m Metadata
	if name, ok := m.Name(); ok {
		t.Fatalf("Name = %q, want absent", name)
	}
	if epoch, ok := m.Epoch(); ok {
		t.Fatalf("Epoch = %v, want absent", epoch)
	}
	if c, ok := m.Channel(); ok {
		t.Fatalf("Channel = %v, want absent", c)
	}
}

func TestMetadataUnitLazyDefault(t *testing.T) {
	var m Metadata
	if _, ok := m.UnitOK(); ok {
		t.Fatal("unit set before first read")
	}
	u := m.Unit()
	if !u.Equal(unit.Dimensionless()) {
		t.Fatalf("Unit = %v, want dimensionless", u)
	}
	// the read materializes the default
	if _, ok := m.UnitOK(); !ok {
		t.Fatal("unit not materialized by read")
	}
}

func TestMetadataSetUnitCoercions(t *testing.T) {
	t.Run("from string", func(t *testing.T) {
		var m Metadata
		if err := m.Set(KeyUnit, "km"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if got := m.Unit(); !got.Equal(unit.MustParse("km")) {
			t.Fatalf("Unit = %v, want km", got)
		}
	})
	t.Run("from number", func(t *testing.T) {
		var m Metadata
		if err := m.Set(KeyUnit, 5.0); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got := m.Unit()
		if !got.IsDimensionless() || got.Scale() != 5 {
			t.Fatalf("Unit = %v, want scaled dimensionless 5", got)
		}
	})
	t.Run("unparseable", func(t *testing.T) {
		var m Metadata
		err := m.Set(KeyUnit, "!!!")
		if !errors.Is(err, unit.ErrParse) {
			t.Fatalf("err = %v, want ErrParse", err)
		}
	})
}

func TestMetadataSetEpochCoercions(t *testing.T) {
	cases := []struct {
		name string
		v    any
		want gps.Time
	}{
		{"gps time", gps.Time(1126259462), 1126259462},
		{"float", 1126259462.5, 1126259462.5},
		{"int", 1187008882, 1187008882},
		{"quantity bare value", unit.NewQuantity(100, unit.Second()), 100},
		{"decimal string", "1126259462.25", 1126259462.25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m Metadata
			if err := m.SetEpoch(tc.v); err != nil {
				t.Fatalf("SetEpoch(%v): %v", tc.v, err)
			}
			got, ok := m.Epoch()
			if !ok || got != tc.want {
				t.Fatalf("Epoch = %v (%v), want %v", got, ok, tc.want)
			}
		})
	}

	var m Metadata
	if err := m.SetEpoch("not a time"); !errors.Is(err, gps.ErrConversion) {
		t.Fatalf("err = %v, want ErrConversion", err)
	}
}

func TestMetadataMappingAccess(t *testing.T) {
	var m Metadata
	if err := m.Set(KeyName, "strain"); err != nil {
		t.Fatalf("Set name: %v", err)
	}
	if err := m.Set("segment", int64(4)); err != nil {
		t.Fatalf("Set extra: %v", err)
	}

	if v, ok := m.Get(KeyName); !ok || v != "strain" {
		t.Fatalf("Get(name) = %v (%v)", v, ok)
	}
	if v, ok := m.Get("segment"); !ok || v != int64(4) {
		t.Fatalf("Get(segment) = %v (%v)", v, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Fatal("Get(missing) reported present")
	}

	m.Delete("segment")
	if _, ok := m.Get("segment"); ok {
		t.Fatal("Delete left extra key behind")
	}
	m.Delete(KeyName)
	if _, ok := m.Name(); ok {
		t.Fatal("Delete left name behind")
	}
}

func TestMetadataKeys(t *testing.T) {
	var m Metadata
	m.SetName("h")
	m.SetUnit(unit.Strain())
	if err := m.Set("b-extra", 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Set("a-extra", 2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got := m.Keys()
	want := []string{"a-extra", "b-extra", KeyName, KeyUnit}
	if len(got) != len(want) {
		t.Fatalf("Keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys = %v, want %v", got, want)
		}
	}
}

func TestMetadataCopyDetached(t *testing.T) {
	var m Metadata
	m.SetName("a")
	ch := detector.MustParse("H1:GDS-CALIB_STRAIN")
	m.SetChannel(ch)
	if err := m.Set("run", "O4"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	dup := m.Copy()
	dup.SetName("b")
	if err := dup.Set("run", "O5"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if name, _ := m.Name(); name != "a" {
		t.Fatalf("source name = %q after copy edit", name)
	}
	if v, _ := m.Get("run"); v != "O4" {
		t.Fatalf("source extra = %v after copy edit", v)
	}
	c2, ok := dup.Channel()
	if !ok || c2.Name() != ch.Name() {
		t.Fatal("channel not carried through copy")
	}
}

func TestMetadataEqual(t *testing.T) {
	var a, b Metadata
	a.SetName("x")
	b.SetName("x")
	a.SetUnit(unit.Meter())
	b.SetUnit(unit.Meter())
	if !a.Equal(&b) {
		t.Fatal("equal metadata reported unequal")
	}
	b.SetUnit(unit.Second())
	if a.Equal(&b) {
		t.Fatal("different units reported equal")
	}
}

func TestMetadataExtraCoercion(t *testing.T) {
	var m Metadata
	if err := m.Set("n", int32(7)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, _ := m.Get("n"); v != int64(7) {
		t.Fatalf("Get(n) = %v (%T), want int64 7", v, v)
	}
	if err := m.Set("bad", struct{}{}); !errors.Is(err, ErrValue) {
		t.Fatalf("err = %v, want ErrValue", err)
	}
}
