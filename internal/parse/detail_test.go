package parse

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

const detailFixture = `<!DOCTYPE html>
<html>
<head>
<meta property="og:title" content="Cam | Squishmallows Wiki"/>
<meta property="og:image" content="https://static.example.test/cam.png"/>
</head>
<body>
<h1 class="page-header__title">Cam</h1>
<aside class="portable-infobox">
  <div class="pi-item pi-data">
    <h3 class="pi-data-label">Type</h3>
    <div class="pi-data-value"><a href="/wiki/Cats">Cat</a></div>
  </div>
  <div class="pi-item pi-data">
    <h3 class="pi-data-label">Color</h3>
    <div class="pi-data-value">Brown, White</div>
  </div>
  <div class="pi-item pi-data">
    <h3 class="pi-data-label">Squad</h3>
    <div class="pi-data-value"><a href="/wiki/Original_Squad">Original Squad</a></div>
  </div>
  <div class="pi-item pi-data">
    <h3 class="pi-data-label">Size(s)</h3>
    <div class="pi-data-value">3.5 in, 8 in, 16 in</div>
  </div>
  <div class="pi-item pi-data">
    <h3 class="pi-data-label">Collector Number</h3>
    <div class="pi-data-value">#143</div>
  </div>
  <div class="pi-item pi-data">
    <h3 class="pi-data-label">Year</h3>
    <div class="pi-data-value">Released in 2017</div>
  </div>
  <div class="pi-item pi-data">
    <h3 class="pi-data-label">Birthday</h3>
    <div class="pi-data-value">June 3</div>
  </div>
</aside>
<div class="mw-parser-output">
  <h2><span class="mw-headline">Bio</span></h2>
  <p>Cam is a calico cat who loves collecting baseball caps.</p>
  <p>He was one of the very first Squishmallows.</p>
  <h2><span class="mw-headline">Trivia</span></h2>
  <p>This trivia text must not leak into the bio.</p>
</div>
</body>
</html>`

func TestDetailParsesCharacterPage(t *testing.T) {
	s, err := Detail([]byte(detailFixture), "https://example.test/wiki/Cam")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}

	if s.Name != "Cam" {
		t.Errorf("name = %q, want Cam", s.Name)
	}
	if s.Type != "Cat" {
		t.Errorf("type = %q, want Cat", s.Type)
	}
	if s.Color != "Brown, White" {
		t.Errorf("color = %q, want Brown, White", s.Color)
	}
	if s.Squad != "Original Squad" {
		t.Errorf("squad = %q, want Original Squad", s.Squad)
	}
	if len(s.Sizes) != 3 || s.Sizes[0] != "3.5 in" || s.Sizes[2] != "16 in" {
		t.Errorf("sizes = %v, want [3.5 in 8 in 16 in]", s.Sizes)
	}
	if s.CollectorNumber != 143 {
		t.Errorf("collector number = %d, want 143", s.CollectorNumber)
	}
	if s.Year != 2017 {
		t.Errorf("year = %d, want 2017", s.Year)
	}
	if s.ImageURL != "https://static.example.test/cam.png" {
		t.Errorf("image url = %q", s.ImageURL)
	}
	if !strings.Contains(s.Bio, "calico cat") || !strings.Contains(s.Bio, "very first") {
		t.Errorf("bio missing expected text: %q", s.Bio)
	}
	if strings.Contains(s.Bio, "trivia") {
		t.Errorf("bio leaked past the next heading: %q", s.Bio)
	}
	if s.Extra["Birthday"] != "June 3" {
		t.Errorf("extra birthday = %q, want June 3", s.Extra["Birthday"])
	}
	if s.ID == "" || s.URL != "https://example.test/wiki/Cam" {
		t.Errorf("id/url not populated: id=%q url=%q", s.ID, s.URL)
	}
}

func TestDetailRejectsPageWithoutInfobox(t *testing.T) {
	body := `<html><body><h1>Some List Page</h1><p>no infobox here</p></body></html>`

	_, err := Detail([]byte(body), "https://example.test/wiki/Some_List_Page")
	if !errors.Is(err, ErrNotCharacter) {
		t.Fatalf("err = %v, want ErrNotCharacter", err)
	}
}

func TestDetailRejectsKnownMetaTitles(t *testing.T) {
	body := `<html><body><h1>Master List</h1>
<aside class="portable-infobox">
  <div class="pi-data"><h3 class="pi-data-label">Type</h3><div class="pi-data-value">Index</div></div>
</aside></body></html>`

	_, err := Detail([]byte(body), "https://example.test/wiki/Master_List")
	if !errors.Is(err, ErrNotCharacter) {
		t.Fatalf("err = %v, want ErrNotCharacter", err)
	}
}

func TestDetailRejectsMissingName(t *testing.T) {
	body := `<html><body><p>nothing to see</p></body></html>`

	_, err := Detail([]byte(body), "https://example.test/wiki/Broken")
	if !errors.Is(err, ErrMissingName) {
		t.Fatalf("err = %v, want ErrMissingName", err)
	}
}

func TestDetailNameFallsBackToOgTitle(t *testing.T) {
	body := `<html><head><meta property="og:title" content="Wendy | Squishmallows Wiki"/></head>
<body>
<aside class="portable-infobox">
  <div class="pi-data"><h3 class="pi-data-label">Type</h3><div class="pi-data-value">Frog</div></div>
</aside>
</body></html>`

	s, err := Detail([]byte(body), "https://example.test/wiki/Wendy")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if s.Name != "Wendy" {
		t.Fatalf("name = %q, want Wendy", s.Name)
	}
}

func TestYearOf(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2017", 2017},
		{"Released in 2020", 2020},
		{"unknown", 0},
		{"", 0},
		{"123", 0},
	}
	for _, tt := range tests {
		if got := yearOf(tt.in); got != tt.want {
			t.Errorf("yearOf(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"#143", 143},
		{"143", 143},
		{"No. 7 of 100", 7},
		{"none", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := leadingInt(tt.in); got != tt.want {
			t.Errorf("leadingInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSplitSizes(t *testing.T) {
	got := splitSizes(" 3.5 in, 8 in ,, 16 in ")
	want := []string{"3.5 in", "8 in", "16 in"}
	if len(got) != len(want) {
		t.Fatalf("sizes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sizes[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if splitSizes("") != nil {
		t.Fatalf("empty input should return nil")
	}
}
