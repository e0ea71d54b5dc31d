package htmltable

import (
	"strings"
	"testing"

	"github.com/Kgirthofer/slate-edit-table/align"
	"github.com/Kgirthofer/slate-edit-table/node"
)

func TestParseSimpleTable(t *testing.T) {
	s := node.DefaultSchema()
	tree, err := ParseFragment(`
		<table>
			<tr><th>Name</th><th>Age</th></tr>
			<tr><td>Ada</td><td>36</td></tr>
		</table>`, s)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}

	tables := Tables(tree, s)
	if len(tables) != 1 {
		t.Fatalf("found %d tables, want 1", len(tables))
	}
	rows := tree.ChildrenOfType(tables[0], s.Row)
	if len(rows) != 2 {
		t.Fatalf("table has %d rows, want 2", len(rows))
	}
	cells := tree.ChildrenOfType(rows[1].Key(), s.Cell)
	if len(cells) != 2 {
		t.Fatalf("row has %d cells, want 2", len(cells))
	}
	if got := tree.TextContent(cells[0].Key()); got != "Ada" {
		t.Errorf("cell text = %q, want %q", got, "Ada")
	}
}

func TestParseTheadTbodyTransparent(t *testing.T) {
	s := node.DefaultSchema()
	tree, err := ParseFragment(`
		<table>
			<thead><tr><th>h</th></tr></thead>
			<tbody><tr><td>d</td></tr></tbody>
		</table>`, s)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}

	tables := Tables(tree, s)
	if len(tables) != 1 {
		t.Fatalf("found %d tables, want 1", len(tables))
	}
	rows := tree.ChildrenOfType(tables[0], s.Row)
	if len(rows) != 2 {
		t.Errorf("thead/tbody should be transparent, got %d rows, want 2", len(rows))
	}
}

func TestParseAlignmentAttributes(t *testing.T) {
	s := node.DefaultSchema()
	tree, err := ParseFragment(`
		<table>
			<tr>
				<td align="left">a</td>
				<td style="text-align: center">b</td>
				<td align="RIGHT">c</td>
				<td>d</td>
			</tr>
		</table>`, s)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}

	tables := Tables(tree, s)
	if len(tables) != 1 {
		t.Fatalf("found %d tables, want 1", len(tables))
	}
	v := align.FromData(tree.Get(tables[0]).Data())
	want := []align.Alignment{align.Left, align.Center, align.Right, align.Default}
	if len(v) != len(want) {
		t.Fatalf("alignment length = %d, want %d", len(v), len(want))
	}
	for i := range want {
		if v[i] != want[i] {
			t.Errorf("alignment[%d] = %v, want %v", i, v[i], want[i])
		}
	}
}

func TestParseRaggedRowsPreserved(t *testing.T) {
	// The reader must not repair structure; that is the rule engine's job.
	s := node.DefaultSchema()
	tree, err := ParseFragment(`
		<table>
			<tr><td>a1</td><td>a2</td><td>a3</td></tr>
			<tr><td>b1</td></tr>
		</table>`, s)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}

	tables := Tables(tree, s)
	rows := tree.ChildrenOfType(tables[0], s.Row)
	if len(rows) != 2 {
		t.Fatalf("table has %d rows, want 2", len(rows))
	}
	if got := len(tree.ChildrenOfType(rows[1].Key(), s.Cell)); got != 1 {
		t.Errorf("short row has %d cells, want the original 1", got)
	}
}

func TestParseSurroundingContent(t *testing.T) {
	s := node.DefaultSchema()
	tree, err := ParseFragment(`<p>intro</p><table><tr><td>x</td></tr></table>`, s)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}

	children := tree.Children(tree.Root().Key())
	if len(children) != 2 {
		t.Fatalf("document has %d children, want paragraph and table", len(children))
	}
	if children[0].Type() != s.Content || children[1].Type() != s.Table {
		t.Errorf("children types = %q, %q", children[0].Type(), children[1].Type())
	}
	if got := tree.TextContent(children[0].Key()); got != "intro" {
		t.Errorf("paragraph text = %q, want %q", got, "intro")
	}
}

func TestParseNormalizesUnicode(t *testing.T) {
	s := node.DefaultSchema()
	// e + combining acute accent; NFC composes it to a single rune.
	tree, err := ParseFragment("<table><tr><td>café</td></tr></table>", s)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	tables := Tables(tree, s)
	if got := tree.TextContent(tables[0]); got != "café" {
		t.Errorf("text = %q, want NFC-composed %q", got, "café")
	}
}

func TestToMarkdown(t *testing.T) {
	s := node.DefaultSchema()
	tree, err := ParseFragment(`
		<table>
			<tr><td align="left">h1</td><td align="center">h2</td><td align="right">h3</td></tr>
			<tr><td>a</td><td>b</td><td>c</td></tr>
		</table>`, s)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}

	got := ToMarkdown(tree, s, Tables(tree, s)[0])
	want := strings.Join([]string{
		"| h1 | h2 | h3 |",
		"|:---|:---:|---:|",
		"| a | b | c |",
		"",
	}, "\n")
	if got != want {
		t.Errorf("ToMarkdown =\n%q\nwant\n%q", got, want)
	}
}

func TestToCSV(t *testing.T) {
	s := node.DefaultSchema()
	tree, err := ParseFragment(`
		<table>
			<tr><td>plain</td><td>with, comma</td></tr>
			<tr><td>quote "q"</td><td>last</td></tr>
		</table>`, s)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}

	got := ToCSV(tree, s, Tables(tree, s)[0])
	want := "plain,\"with, comma\"\n\"quote \"\"q\"\"\",last\n"
	if got != want {
		t.Errorf("ToCSV = %q, want %q", got, want)
	}
}

func TestToMarkdownEmptyTable(t *testing.T) {
	s := node.DefaultSchema()
	tree := node.NewTree()
	table := tree.NewBlock(s.Table, nil)
	tree.AppendChild(tree.Root().Key(), table.Key())

	if got := ToMarkdown(tree, s, table.Key()); got != "" {
		t.Errorf("ToMarkdown of rowless table = %q, want empty", got)
	}
}
