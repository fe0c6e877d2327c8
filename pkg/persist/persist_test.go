package persist

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/mindmap/pkg/model"
)

func sampleTree(t *testing.T) *model.Tree {
	t.Helper()
	tr := model.NewTree("Plan <b>2024</b>", model.WithRootID("root"))
	add := func(parent, text string) *model.Node {
		n, err := tr.AddChild(parent, text, model.SideUnset)
		if err != nil {
			t.Fatal(err)
		}
		return n
	}
	a := add("root", "Goals")
	a.Color = "red"
	add(a.ID, "日本語\nline two")
	b := add("root", "Risks")
	b.Collapsed = true
	add(b.ID, "hidden")
	return tr
}

func sameTree(t *testing.T, want, got *model.Tree) {
	t.Helper()
	if !reflect.DeepEqual(ToDocument(want), ToDocument(got)) {
		t.Errorf("trees differ:\nwant %+v\ngot  %+v", ToDocument(want), ToDocument(got))
	}
}

func TestEncodeFormat(t *testing.T) {
	data, err := Encode(sampleTree(t))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)

	if !strings.HasPrefix(s, "{\n    \"id\": \"root\"") {
		t.Errorf("want 4-space indent, got:\n%s", s)
	}
	for _, want := range []string{
		`"direction": null`,
		`"direction": "right"`,
		`"direction": "left"`,
		`"color": "red"`,
		`"color": null`,
		`"collapsed": true`,
		"日本語",
		"<b>",
		`"children": []`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("encoded document missing %s", want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	orig := sampleTree(t)
	data, err := Encode(orig)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	sameTree(t, orig, loaded)
	if err := loaded.Validate(); err != nil {
		t.Error(err)
	}
}

func TestDecodeTolerantInput(t *testing.T) {
	input := `{
		"text": "root",
		"children": [
			{"id": "x", "text": "no direction", "children": [
				{"id": "y", "text": "wrong side", "direction": "left"}
			]},
			{"id": "x", "text": "duplicate id", "direction": "left"},
			{"text": "no id", "direction": "left", "color": null}
		]
	}`
	tr, err := Decode([]byte(input))
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Validate(); err != nil {
		t.Fatal(err)
	}
	if tr.Len() != 5 || tr.Root().ID == "" {
		t.Fatalf("len %d root id %q", tr.Len(), tr.Root().ID)
	}

	kids := tr.Children(tr.Root())
	if len(kids) != 3 {
		t.Fatalf("root has %d children, want 3", len(kids))
	}
	if kids[0].ID != "x" || kids[0].Side != model.SideRight {
		t.Errorf("missing direction should default to right: %+v", kids[0])
	}
	if s := tr.Children(kids[0])[0].Side; s != model.SideRight {
		t.Errorf("subtree side = %v, want the root child's side", s)
	}
	if kids[1].ID == "x" || kids[1].ID == "" {
		t.Errorf("duplicate id not regenerated: %q", kids[1].ID)
	}
	if kids[2].ID == "" || kids[2].Side != model.SideLeft || kids[2].Color != "" {
		t.Errorf("third child = %+v", kids[2])
	}
}

func TestDecodeErrors(t *testing.T) {
	for name, input := range map[string]string{
		"malformed": `{"text": `,
		"null":      `null`,
		"array":     `[]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(input))
			var pe *PersistenceError
			if !errors.As(err, &pe) {
				t.Fatalf("Decode() error = %v, want a PersistenceError", err)
			}
			if pe.Op != "decode" {
				t.Errorf("Op = %q, want decode", pe.Op)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")
	tr := sampleTree(t)

	written, err := Save(path, tr)
	if err != nil {
		t.Fatal(err)
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(written, onDisk) {
		t.Error("Save returned different bytes than it wrote")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	sameTree(t, tr, loaded)
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	var pe *PersistenceError
	if !errors.As(err, &pe) || pe.Op != "load" {
		t.Fatalf("missing file: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v does not wrap ErrNotExist", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Load(bad)
	if !errors.As(err, &pe) {
		t.Fatalf("bad file: %v", err)
	}
	if pe.Path != bad || !strings.Contains(err.Error(), "bad.json") {
		t.Errorf("error %v does not name %s", err, bad)
	}
}

func TestSaveIntoMissingDirectory(t *testing.T) {
	_, err := Save(filepath.Join(t.TempDir(), "nope", "x.json"), sampleTree(t))
	var pe *PersistenceError
	if !errors.As(err, &pe) || pe.Op != "save" {
		t.Errorf("Save() error = %v, want a save PersistenceError", err)
	}
}

func TestDefaultFileName(t *testing.T) {
	tests := []struct {
		root string
		want string
	}{
		{"Central Topic", "Central Topic.json"},
		{"", DefaultName},
		{"  ", DefaultName},
		{"<b></b>", DefaultName},
		{"line one\nline two", "line one line two.json"},
		{"a/b\\c:d*e?f\"g<h>i|j", "abcdefgij.json"},
		{"<i>Plan</i> for Q3", "Plan for Q3.json"},
		{"abcdefghijklmnopqrstuvwxyz", "abcdefghijklmnopqrst.json"},
		{"日本語のとても長いマインドマップのタイトルです", "日本語のとても長いマインドマップのタイト.json"},
	}
	for _, tt := range tests {
		t.Run(tt.root, func(t *testing.T) {
			if got := DefaultFileName(tt.root); got != tt.want {
				t.Errorf("DefaultFileName(%q) = %q, want %q", tt.root, got, tt.want)
			}
		})
	}
}

func TestPropertyRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tr := model.NewTree(rapid.String().Draw(rt, "root"))
		all := []string{tr.Root().ID}
		steps := rapid.IntRange(0, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0, 1:
				parent := rapid.SampledFrom(all).Draw(rt, "parent")
				n, err := tr.AddChild(parent, rapid.String().Draw(rt, "text"), model.SideUnset)
				if err != nil {
					rt.Fatal(err)
				}
				n.Color = rapid.SampledFrom([]string{"", "red", "#00ff00"}).Draw(rt, "color")
				n.Collapsed = rapid.Bool().Draw(rt, "collapsed")
				all = append(all, n.ID)
			case 2:
				id := rapid.SampledFrom(all).Draw(rt, "move")
				target := rapid.SampledFrom(all).Draw(rt, "target")
				if tr.MoveTo(id, target) == nil {
					side := func() model.Side {
						if n, _ := tr.Node(target); !n.IsRoot() {
							return n.Side
						}
						return tr.BalancedSide(id)
					}()
					tr.PropagateSide(id, side)
				}
			case 3:
				tr.RemoveChild(rapid.SampledFrom(all).Draw(rt, "delete"))
				all = all[:0]
				tr.Walk(func(n *model.Node, _ int) bool {
					all = append(all, n.ID)
					return true
				})
			}
		}

		data, err := Encode(tr)
		if err != nil {
			rt.Fatal(err)
		}
		loaded, err := Decode(data)
		if err != nil {
			rt.Fatal(err)
		}
		if !reflect.DeepEqual(ToDocument(tr), ToDocument(loaded)) {
			rt.Fatalf("round trip changed the tree:\n%s", data)
		}
	})
}
