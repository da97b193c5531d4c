package docpath

import (
	"errors"
	"reflect"
	"testing"

	"github.com/yacchi/rtyaml/omap"
)

func sample() *omap.Map {
	return omap.New(
		omap.Entry{Key: "server", Value: omap.New(
			omap.Entry{Key: "host", Value: "localhost"},
			omap.Entry{Key: "port", Value: 8080},
		)},
		omap.Entry{Key: "servers", Value: []any{
			omap.New(omap.Entry{Key: "name", Value: "a"}),
			omap.New(omap.Entry{Key: "name", Value: "b"}),
		}},
		omap.Entry{Key: 404, Value: "not found"},
		omap.Entry{Key: "a/b", Value: "slash"},
		omap.Entry{Key: nil, Value: "null key"},
	)
}

func TestParse(t *testing.T) {
	tests := []struct {
		pointer string
		want    []string
		wantErr bool
	}{
		{pointer: "", want: []string{}},
		{pointer: "/", want: []string{""}},
		{pointer: "/server/port", want: []string{"server", "port"}},
		{pointer: "/a~1b/c~0d", want: []string{"a/b", "c~d"}},
		{pointer: "/~01", want: []string{"~1"}},
		{pointer: "server", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.pointer, func(t *testing.T) {
			got, err := Parse(tt.pointer)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	if got, want := Build("servers", 0, "a/b"), "/servers/0/a~1b"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
	if got := Build(); got != "" {
		t.Errorf("Build() = %q, want empty", got)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		pointer string
		want    any
	}{
		{pointer: "/server/host", want: "localhost"},
		{pointer: "/server/port", want: 8080},
		{pointer: "/servers/1/name", want: "b"},
		{pointer: "/404", want: "not found"},
		{pointer: "/a~1b", want: "slash"},
		{pointer: "/~", want: "null key"},
	}

	root := sample()
	for _, tt := range tests {
		t.Run(tt.pointer, func(t *testing.T) {
			got, err := Get(root, tt.pointer)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Get() = %v, want %v", got, tt.want)
			}
		})
	}

	whole, err := Get(root, "")
	if err != nil || whole != any(root) {
		t.Errorf("Get(\"\") = %v, %v, want root", whole, err)
	}
}

func TestGetErrors(t *testing.T) {
	root := sample()

	var nf *NotFoundError
	for _, p := range []string{"/missing", "/servers/9", "/servers/x"} {
		if _, err := Get(root, p); !errors.As(err, &nf) {
			t.Errorf("Get(%q) error = %v, want *NotFoundError", p, err)
		}
	}

	var tm *TypeMismatchError
	if _, err := Get(root, "/server/host/deeper"); !errors.As(err, &tm) {
		t.Fatalf("Get() error = %v, want *TypeMismatchError", err)
	}
	if tm.Pointer != "/server/host" {
		t.Errorf("Pointer = %q, want /server/host", tm.Pointer)
	}

	var pe *PathError
	if _, err := Get(root, "no-slash"); !errors.As(err, &pe) {
		t.Errorf("Get() error = %v, want *PathError", err)
	}
}

func TestSet(t *testing.T) {
	root := sample()

	tests := []struct {
		name    string
		pointer string
		value   any
	}{
		{name: "update existing", pointer: "/server/port", value: 9090},
		{name: "add key", pointer: "/server/tls", value: true},
		{name: "update item", pointer: "/servers/0/name", value: "z"},
		{name: "append by index", pointer: "/servers/2", value: "c"},
		{name: "append by dash", pointer: "/servers/-", value: "d"},
		{name: "create intermediates", pointer: "/new/deep/key", value: "v"},
		{name: "create sequence", pointer: "/list/0", value: "first"},
		{name: "non-string key", pointer: "/404", value: "gone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := Set(root, tt.pointer, tt.value)
			if err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := Get(updated, tt.pointer)
			if tt.pointer == "/servers/-" {
				got, err = Get(updated, "/servers/3")
			}
			if err != nil {
				t.Fatalf("Get() after Set error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.value) {
				t.Errorf("Get() after Set = %v, want %v", got, tt.value)
			}
		})
	}

	keys := root.Keys()
	if keys[0] != "server" || keys[len(keys)-1] != "list" {
		t.Errorf("Keys() = %v, want new keys appended after existing ones", keys)
	}
	if _, ok := root.Get("404"); ok {
		t.Error("Set(/404) added a string key instead of updating the integer key")
	}
}

func TestSetTopLevelSequence(t *testing.T) {
	root := any([]any{"a"})
	root, err := Set(root, "/-", "b")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !reflect.DeepEqual(root, []any{"a", "b"}) {
		t.Errorf("root = %v, want [a b]", root)
	}
}

func TestSetNilRoot(t *testing.T) {
	root, err := Set(nil, "/a", 1)
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	m, ok := root.(*omap.Map)
	if !ok {
		t.Fatalf("root = %T, want *omap.Map", root)
	}
	if v, _ := m.Get("a"); v != 1 {
		t.Errorf("Get(a) = %v, want 1", v)
	}
}

func TestSetErrors(t *testing.T) {
	tests := []struct {
		name    string
		root    any
		pointer string
	}{
		{name: "root", root: sample(), pointer: ""},
		{name: "index out of range", root: sample(), pointer: "/servers/5"},
		{name: "bad index", root: sample(), pointer: "/servers/one"},
		{name: "leading zero index", root: sample(), pointer: "/servers/01"},
		{name: "scalar root", root: "text", pointer: "/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Set(tt.root, tt.pointer, "x"); err == nil {
				t.Error("Set() error = nil, want error")
			}
		})
	}
}

func TestDelete(t *testing.T) {
	root := sample()

	updated, err := Delete(root, "/servers/0")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got, _ := Get(updated, "/servers/0/name"); got != "b" {
		t.Errorf("/servers/0/name = %v, want b", got)
	}

	if _, err := Delete(updated, "/server/host"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	server, _ := Get(updated, "/server")
	if got, want := server.(*omap.Map).Keys(), []any{"port"}; !reflect.DeepEqual(got, want) {
		t.Errorf("server keys = %v, want %v", got, want)
	}

	// Missing paths are fine.
	if _, err := Delete(updated, "/nope/deeper"); err != nil {
		t.Errorf("Delete(missing) error = %v, want nil", err)
	}

	if _, err := Delete(updated, ""); err == nil {
		t.Error("Delete(root) error = nil, want error")
	}
}
