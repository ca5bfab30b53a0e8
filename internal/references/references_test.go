package references

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/leofalp/scenario/providers/observability"
	"github.com/leofalp/scenario/providers/observability/observabilitytest"
)

func TestTags(t *testing.T) {
	tests := []struct {
		name  string
		title string
		plot  string
		want  []string
	}{
		{name: "none", title: "평범한 하루", plot: "아무 일도 없었다.", want: []string{}},
		{name: "title only", title: "의처증 남편", plot: "남편이 아내를 의심한다.", want: []string{"의처증"}},
		{name: "plot word in title is ignored", title: "불륜", plot: "조용한 집", want: []string{}},
		{
			name:  "all plot tags",
			title: "결말",
			plot:  "남편의 외도와 시댁의 간섭 끝에 이혼을 결심한다.",
			want:  []string{"불륜", "고부갈등", "이혼"},
		},
		{name: "tag once", title: "", plot: "불륜 그리고 또 외도", want: []string{"불륜"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tags(tt.title, tt.plot); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcess(t *testing.T) {
	rec := observabilitytest.New()
	ctx := observability.ContextWithObserver(context.Background(), rec)

	raw := []RawEpisode{
		{Title: "  의처증의 끝 ", Plot: "  아내를 의심하던 남편은 결국 이혼 소송을 당한다. "},
		{Title: "시댁 전쟁", Plot: "<p>시어머니가 <b>며느리</b>를 몰아낸다.</p>"},
	}
	got, err := Process(ctx, raw)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Title != "의처증의 끝" || got[0].Plot != "아내를 의심하던 남편은 결국 이혼 소송을 당한다." {
		t.Errorf("first = %+v", got[0])
	}
	if !reflect.DeepEqual(got[0].Tags, []string{"의처증", "이혼"}) {
		t.Errorf("first tags = %v", got[0].Tags)
	}
	if strings.Contains(got[1].Plot, "<p>") || !strings.Contains(got[1].Plot, "시어머니가") {
		t.Errorf("second plot = %q", got[1].Plot)
	}
	if !reflect.DeepEqual(got[1].Tags, []string{"고부갈등"}) {
		t.Errorf("second tags = %v", got[1].Tags)
	}

	spans := rec.Spans()
	if len(spans) != 1 || spans[0].Name != observability.SpanReferences || !spans[0].Ended {
		t.Errorf("spans = %+v", spans)
	}

	if _, err := Process(context.Background(), nil); !errors.Is(err, ErrNoEpisodes) {
		t.Errorf("Process(nil) error = %v", err)
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()

	rawPath := filepath.Join(dir, "raw.json")
	rawDoc := `[
		{"title": "A", "plot": "불륜"}, // scraped
		{"title": "B", "plot": "평화"},
	]`
	if err := os.WriteFile(rawPath, []byte(rawDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	raw, err := LoadRaw(rawPath)
	if err != nil {
		t.Fatalf("LoadRaw() error = %v", err)
	}
	if want := []RawEpisode{{Title: "A", Plot: "불륜"}, {Title: "B", Plot: "평화"}}; !reflect.DeepEqual(raw, want) {
		t.Errorf("LoadRaw() = %+v", raw)
	}

	episodes, err := Process(context.Background(), raw)
	if err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "processed", "corpus.json")
	if err := Save(outPath, episodes); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "\"불륜\"") || !strings.Contains(string(b), "\n  {") {
		t.Errorf("saved file = %s", b)
	}

	loaded, err := Load(outPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, episodes) {
		t.Errorf("Load() = %+v, want %+v", loaded, episodes)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(empty); !errors.Is(err, ErrNoEpisodes) {
		t.Errorf("Load(empty) error = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v", err)
	}
}

func TestSample(t *testing.T) {
	episodes := []Episode{{Title: "1"}, {Title: "2"}, {Title: "3"}, {Title: "4"}}
	rng := rand.New(rand.NewPCG(1, 2))

	got := Sample(episodes, 3, rng)
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	seen := map[string]bool{}
	for _, e := range got {
		if seen[e.Title] {
			t.Errorf("duplicate %q", e.Title)
		}
		seen[e.Title] = true
	}

	if all := Sample(episodes, 10, rng); len(all) != 4 {
		t.Errorf("oversized sample len = %d", len(all))
	}
	if none := Sample(episodes, 0, rng); none != nil {
		t.Errorf("Sample(0) = %v", none)
	}
}
