package types

// StoredAttachment records a file or collection reference attached to a user
// message. Only user messages carry attachments.
type StoredAttachment struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"` // "file" or "collection"
}

// StoredMessage is one chat turn in a persisted conversation.
type StoredMessage struct {
	Role        string             `json:"role"` // "user" or "assistant"
	Content     string             `json:"content"`
	Attachments []StoredAttachment `json:"attachments,omitempty"`
}

// StoredChat is a persisted conversation with the LLM gateway.
type StoredChat struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	ModelID   string          `json:"modelId"`
	Messages  []StoredMessage `json:"messages"`
	CreatedAt int64           `json:"createdAt"`
	UpdatedAt int64           `json:"updatedAt"`
}

// ChatSettings holds the gateway connection settings editable at runtime.
type ChatSettings struct {
	APIURL string `json:"apiUrl"`
	APIKey string `json:"apiKey"`
}

// StoredUploadedFile records a file already uploaded to the gateway so it can
// be re-attached without re-uploading.
type StoredUploadedFile struct {
	FileID     string `json:"fileId"`
	Name       string `json:"name"`
	UploadedAt int64  `json:"uploadedAt"`
}

// StoredCollection is a locally tracked grouping of uploaded files.
type StoredCollection struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	FileIDs   []string `json:"fileIds"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}
