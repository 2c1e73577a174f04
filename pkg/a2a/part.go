package a2a

/*
Part is a discriminated union over the content types a Message may carry.
Only the text part matters to the marketplace protocol; keeping the union
shape means richer part types can be added without custom JSON marshalling.

Exactly ONE of Text or Data should be populated according to the Type field.
This is not enforced at the struct level.
*/
type Part struct {
	Type PartType `json:"type"`

	Text string         `json:"text,omitempty"`
	Data map[string]any `json:"data,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// PartType is the discriminator for a Part union.
type PartType string

const (
	PartTypeText PartType = "text"
	PartTypeData PartType = "data"
)

func NewTextPart(text string) Part {
	return Part{
		Type: PartTypeText,
		Text: text,
	}
}
