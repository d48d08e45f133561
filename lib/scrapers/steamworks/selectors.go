package steamworks

import "steamdoc/lib/htmlutil"

// every assumption made about the documentation markup lives here.

var (
	// the landing page lists one section per row, the identifier is
	// in the first column.
	indexTable       = htmlutil.Query{Tag: "table"}
	indexSectionCell = "td:first-child"

	pageTitle = htmlutil.Query{Tag: "div", Filter: htmlutil.Class("docPageTitle")}

	// each endpoint starts with a heading, followed by a code block of the
	// form "<METHOD> <URL>" and then its parameter table.
	sectionHeading = htmlutil.Query{Tag: "h2", Filter: htmlutil.Class("bb_section")}
	httpSnippet    = htmlutil.Query{Tag: "div", Filter: htmlutil.Class("bb_code", "http", "hljs")}
	paramTable     = htmlutil.Query{Tag: "table"}
	paramRow       = htmlutil.Query{Tag: "tr"}
	paramCell      = htmlutil.Query{Tag: "td"}
)

// parameter table columns, the first row is always a header.
const (
	colName = iota
	colType
	colRequired
	colDescription

	paramColumns
)
