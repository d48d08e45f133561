package steamworks

import (
	"fmt"
	"steamdoc/lib/htmlutil"
	"strings"

	"golang.org/x/net/html"
)

// ParseSections extracts the section identifiers from the landing page in
// document order, duplicates included.
func ParseSections(body string) ([]string, error) {
	root, err := htmlutil.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	table := indexTable.FindFirst(root)
	if table == nil {
		return nil, &MarkupError{Expected: "index table"}
	}

	cells := htmlutil.Select(table, indexSectionCell)
	sections := make([]string, 0, cells.Length())
	for _, cell := range cells.Nodes {
		sections = append(sections, htmlutil.GetText(cell))
	}
	return sections, nil
}

// Page is a parsed section page.
type Page struct {
	Section string
	// MarkdownDescriptions converts parameter descriptions to markdown
	// instead of reading their plain text.
	MarkdownDescriptions bool

	root     *html.Node
	headings []*html.Node
}

func ParsePage(section, body string) (*Page, error) {
	root, err := htmlutil.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &Page{
		Section:  section,
		root:     root,
		headings: sectionHeading.FindAll(root),
	}, nil
}

// Title is the first word of the page title, or an empty string
// if the page has none. Whitespace around and inside the title is
// normalised first, so indented markup still yields the word.
func (p *Page) Title() string {
	node := pageTitle.FindFirst(p.root)
	if node == nil {
		return ""
	}
	return strings.Split(htmlutil.CleanText(node), " ")[0]
}

func (p *Page) PointNames() []string {
	names := make([]string, len(p.headings))
	for i, heading := range p.headings {
		names[i] = htmlutil.GetText(heading)
	}
	return names
}

func (p *Page) Points() ([]Endpoint, error) {
	endpoints := make([]Endpoint, 0, len(p.headings))
	for _, heading := range p.headings {
		endpoint, err := p.parseEndpoint(heading)
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, endpoint)
	}
	return endpoints, nil
}

// Point finds the first heading whose text is exactly name.
func (p *Page) Point(name string) (Endpoint, bool, error) {
	for _, heading := range p.headings {
		if htmlutil.GetText(heading) != name {
			continue
		}
		endpoint, err := p.parseEndpoint(heading)
		if err != nil {
			return Endpoint{}, false, err
		}
		return endpoint, true, nil
	}
	return Endpoint{}, false, nil
}

func (p *Page) parseEndpoint(heading *html.Node) (Endpoint, error) {
	name := htmlutil.GetText(heading)

	snippet := httpSnippet.FindNext(heading)
	if snippet == nil {
		return Endpoint{}, &MarkupError{Heading: name, Expected: "http snippet"}
	}
	tokens := strings.Split(htmlutil.GetText(snippet), " ")
	if len(tokens) < 2 {
		return Endpoint{}, &MarkupError{Heading: name, Expected: "\"<method> <url>\" in http snippet"}
	}

	table := paramTable.FindNext(heading)
	if table == nil {
		return Endpoint{}, &MarkupError{Heading: name, Expected: "parameter table"}
	}
	params, err := p.parseParams(name, table)
	if err != nil {
		return Endpoint{}, err
	}

	return Endpoint{
		Method: tokens[0],
		Url:    tokens[1],
		Name:   name,
		Params: params,
	}, nil
}

func (p *Page) parseParams(heading string, table *html.Node) (Params, error) {
	var params Params

	rows := paramRow.FindAll(table)
	if len(rows) == 0 {
		return params, nil
	}
	for _, row := range rows[1:] {
		cells := paramCell.FindAll(row)
		if len(cells) < paramColumns {
			return Params{}, &MarkupError{
				Heading:  heading,
				Expected: fmt.Sprintf("%d cells in every parameter row", paramColumns),
			}
		}
		description, err := p.describe(cells[colDescription])
		if err != nil {
			return Params{}, fmt.Errorf("description of %q: %w", heading, err)
		}
		params.Set(htmlutil.GetText(cells[colName]), ParamSpec{
			Type:        htmlutil.GetText(cells[colType]),
			Required:    htmlutil.GetText(cells[colRequired]) != "",
			Description: description,
		})
	}
	return params, nil
}

func (p *Page) describe(cell *html.Node) (string, error) {
	if p.MarkdownDescriptions {
		return htmlutil.Markdown(cell)
	}
	return htmlutil.GetText(cell), nil
}
