package value

import (
	"testing"
)

func TestMergeMaps(t *testing.T) {
	defaults := FromMap(map[string]Value{
		"host": FromString("localhost"),
		"port": FromInt(80),
		"tls":  FromMap(map[string]Value{"enabled": FromInt(0), "cert": FromString("default.pem")}),
	})
	overrides := FromMap(map[string]Value{
		"port": FromInt(8443),
		"tls":  FromMap(map[string]Value{"enabled": FromInt(1)}),
	})

	merged, err := MergeMaps(defaults, None(), overrides)
	if err != nil {
		t.Fatalf("MergeMaps error: %v", err)
	}
	want := `{"host": "localhost", "port": 8443, "tls": {"cert": "default.pem", "enabled": 1}}`
	if got := merged.Repr(); got != want {
		t.Errorf("MergeMaps = %s\nwant %s", got, want)
	}

	// The result shares nothing with its sources.
	tls, _ := merged.Path("tls")
	_ = tls.Set("cert", FromString("custom.pem"))
	cert, _ := defaults.Lookup("tls", "cert")
	if !cert.Equal(FromString("default.pem")) {
		t.Errorf("source changed through merge result: %s", defaults.Repr())
	}
}

func TestMergeMapsReplacesNonMaps(t *testing.T) {
	a := FromMap(map[string]Value{"x": FromMap(map[string]Value{"y": FromInt(1)})})
	b := FromMap(map[string]Value{"x": FromInt(2)})
	c := FromMap(map[string]Value{"x": FromMap(map[string]Value{"z": FromInt(3)})})

	merged, err := MergeMaps(a, b, c)
	if err != nil {
		t.Fatal(err)
	}
	if got := merged.Repr(); got != `{"x": {"z": 3}}` {
		t.Errorf("MergeMaps = %s", got)
	}
}

func TestMergeMapsEmpty(t *testing.T) {
	merged, err := MergeMaps()
	if err != nil {
		t.Fatal(err)
	}
	if merged.Kind() != KindMap || merged.Repr() != "{}" {
		t.Errorf("MergeMaps() = %s, want {}", merged.Repr())
	}
}

func TestMergeMapsTypeError(t *testing.T) {
	_, err := MergeMaps(EmptyMap(), FromList([]Value{FromInt(1)}))
	if !IsTypeError(err) {
		t.Errorf("error = %v, want type error", err)
	}
	if err != nil && err.Error() != "type error: cannot merge list into map" {
		t.Errorf("error = %q", err.Error())
	}
}
