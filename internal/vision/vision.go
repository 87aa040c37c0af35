package vision

import (
	"context"
	"io"
)

// DescribePrompt is the shared prompt used by all describer backends.
const DescribePrompt = `This is the icon or screenshot of a software application listed in a catalog.
Write a short catalog description of what the application appears to do, in at most
three sentences of plain text. Do not mention that you are looking at an image.`

// Describer drafts an app description from the app's image.
type Describer interface {
	Describe(ctx context.Context, r io.Reader, mimeType string) (*Description, error)
}

type Description struct {
	Text        string
	RawResponse string
}
