package topics

// Renderer turns raw topic source into what is printed for the user.
// format is the topic file extension, dot included (".md" or ".txt").
type Renderer interface {
	Render(content string, format string) string
}

// PlainRenderer prints topics verbatim. It is the fallback when no
// renderer is configured and the choice for non-terminal output.
type PlainRenderer struct{}

func (r *PlainRenderer) Render(content string, format string) string {
	return content
}
