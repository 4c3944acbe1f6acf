package tex2html

import (
	"strings"
	"testing"
)

func TestParseDocumentAndRender(t *testing.T) {
	doc, err := ParseDocument("<p>Hello <em>World</em></p>")
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	out, err := doc.Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "<p>Hello <em>World</em></p>") {
		t.Errorf("Render() = %q", out)
	}
}

func TestElementsByTagDocumentOrder(t *testing.T) {
	doc, err := ParseDocument(`<p><img src="a.png"><span>x</span><img src="b.png"></p>`)
	if err != nil {
		t.Fatal(err)
	}
	imgs := doc.ElementsByTag("img")
	if len(imgs) != 2 {
		t.Fatalf("found %d img elements, want 2", len(imgs))
	}
	if imgs[0].Attr("src") != "a.png" || imgs[1].Attr("src") != "b.png" {
		t.Errorf("elements out of document order: %q, %q", imgs[0].Attr("src"), imgs[1].Attr("src"))
	}
}

func TestElementSetAttr(t *testing.T) {
	doc, err := ParseDocument(`<img src="old.png">`)
	if err != nil {
		t.Fatal(err)
	}
	img := doc.ElementsByTag("img")[0]

	img.SetAttr("src", "new.svg")
	img.SetAttr("alt", "figure")

	if got := img.Attr("src"); got != "new.svg" {
		t.Errorf("src = %q", got)
	}
	if got := img.Attr("alt"); got != "figure" {
		t.Errorf("alt = %q", got)
	}
	if got := img.Attr("missing"); got != "" {
		t.Errorf("missing attr = %q, want empty", got)
	}
}

func TestElementHasClass(t *testing.T) {
	doc, err := ParseDocument(`<span class="math display">x</span>`)
	if err != nil {
		t.Fatal(err)
	}
	span := doc.ElementsByTag("span")[0]
	if !span.HasClass("math") || !span.HasClass("display") {
		t.Error("HasClass() missed present classes")
	}
	if span.HasClass("inline") {
		t.Error("HasClass() matched absent class")
	}
}

func TestElementText(t *testing.T) {
	doc, err := ParseDocument("<p>Hello <em>World</em> !</p>")
	if err != nil {
		t.Fatal(err)
	}
	p := doc.ElementsByTag("p")[0]
	if got := p.Text(); got != "Hello World !" {
		t.Errorf("Text() = %q", got)
	}
}

func TestElementReplaceWith(t *testing.T) {
	doc, err := ParseDocument(`<p>before <span class="math inline">\(x\)</span> after</p>`)
	if err != nil {
		t.Fatal(err)
	}
	span := doc.ElementsByTag("span")[0]
	if err := span.ReplaceWith(`<code class="katex">x</code>`); err != nil {
		t.Fatalf("ReplaceWith() error = %v", err)
	}

	out, err := doc.Render()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `before <code class="katex">x</code> after`) {
		t.Errorf("Render() = %q", out)
	}
	if strings.Contains(out, "<span") {
		t.Error("replaced element still present")
	}
}

func TestDocumentText(t *testing.T) {
	doc, err := ParseDocument("<p>Hello World !</p>")
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Text(); got != "Hello World !" {
		t.Errorf("Text() = %q", got)
	}
}
