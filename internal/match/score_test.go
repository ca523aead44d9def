package match

import (
	"testing"

	"github.com/mj1618/element-inspector/internal/model"
)

func node(class string, attrs ...string) *model.Node {
	n := model.NewNode(class)
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attrs = append(n.Attrs, model.Attr{Name: attrs[i], Value: attrs[i+1]})
	}
	return n
}

func TestScore_Rules(t *testing.T) {
	tests := []struct {
		name string
		n    *model.Node
		term string
		want int
	}{
		{
			name: "empty term",
			n:    node("a.TextView", model.AttrText, "Views"),
			term: "",
			want: 0,
		},
		{
			name: "whitespace term",
			n:    node("a.TextView", model.AttrText, "Views"),
			term: "   ",
			want: 0,
		},
		{
			name: "text exact adds contains and prefix",
			n:    node("a.TextView", model.AttrText, "Views"),
			term: "views",
			want: 1000 + 500 + 5*5,
		},
		{
			name: "content-desc exact",
			n:    node("a.ImageButton", model.AttrContentDesc, "Play"),
			term: "PLAY",
			want: 1000 + 500 + 4*5,
		},
		{
			name: "resource-id namespaced suffix",
			n:    node("a.EditText", model.AttrResourceID, "com.app:id/search"),
			term: "search",
			want: 900 + 800 + 400,
		},
		{
			name: "resource-id plain exact",
			n:    node("a.EditText", model.AttrResourceID, "search"),
			term: "search",
			want: 1000 + 400 + 6*3,
		},
		{
			name: "resource-id path suffix only",
			n:    node("a.EditText", model.AttrResourceID, "widgets/search"),
			term: "search",
			want: 800 + 400,
		},
		{
			name: "class substring",
			n:    node("com.example.SearchBox"),
			term: "search",
			want: 300,
		},
		{
			name: "text substring",
			n:    node("a.TextView", model.AttrText, "Open settings"),
			term: "settings",
			want: 500,
		},
		{
			name: "prefix only",
			n:    node("a.TextView", model.AttrText, "Accessibility"),
			term: "Aksesibiliti",
			want: 1 * 5,
		},
		{
			name: "unrelated",
			n:    node("a.TextView", model.AttrText, "Views", model.AttrResourceID, "a:id/x"),
			term: "zzz",
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.n, tt.term); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

// Rules fire independently, so a node matching on every attribute compounds
// its score instead of keeping the best single rule.
func TestScore_AdditiveAcrossAttributes(t *testing.T) {
	n := node("a.Button",
		model.AttrText, "ok",
		model.AttrContentDesc, "ok",
		model.AttrResourceID, "ok",
	)
	want := 3*1000 + 500 + 500 + 400 + 2*5 + 2*5 + 2*3
	if got := Score(n, "ok"); got != want {
		t.Errorf("Score() = %d, want %d", got, want)
	}
}

func TestScore_Deterministic(t *testing.T) {
	n := node("a.TextView", model.AttrText, "Accessibility", model.AttrResourceID, "android:id/text1")
	first := Score(n, "Access")
	for i := 0; i < 50; i++ {
		if got := Score(n, "Access"); got != first {
			t.Fatalf("run %d: Score() = %d, want %d", i, got, first)
		}
	}
	if first < 0 {
		t.Errorf("score must be non-negative, got %d", first)
	}
}

func TestScore_ExactBeatsContainsOnSameAttribute(t *testing.T) {
	terms := []string{"a", "ok", "views", "search", "Navigate up", "Ünïcode"}
	for _, term := range terms {
		for _, attr := range []string{model.AttrText, model.AttrContentDesc, model.AttrResourceID} {
			exact := node("x.Node", attr, term)
			contains := node("x.Node", attr, "prefix "+term+" suffix")
			if Score(exact, term) <= Score(contains, term) {
				t.Errorf("%s=%q: exact %d should beat contains %d",
					attr, term, Score(exact, term), Score(contains, term))
			}
		}
	}
}

func TestPrefixRun(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"accessibility", "aksesibiliti", 1},
		{"animation", "anim", 4},
		{"anim", "animation", 4},
		{"abc", "abc", 3},
		{"abc", "xbc", 0},
		{"", "abc", 0},
		{"abc", "", 0},
		{"ünïcode", "ünïx", 3},
	}
	for _, tt := range tests {
		if got := PrefixRun(tt.a, tt.b); got != tt.want {
			t.Errorf("PrefixRun(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
