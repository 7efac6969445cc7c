package job

import "fmt"

// Status is the remote service's job lifecycle state.
type Status string

const (
	StatusCreated Status = "created"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusAborted Status = "aborted"
)

// Terminal reports whether no further transition can occur from this status.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusAborted:
		return true
	}
	return false
}

// maxErrBody caps how much of an error response body is carried in a
// ProtocolError.
const maxErrBody = 512

// ProtocolError is returned for any non-success HTTP status or an
// application-level ok:false envelope on a control-plane call.
type ProtocolError struct {
	Op         string
	StatusCode int
	Body       string
	Message    string
}

func (e *ProtocolError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("job %s failed: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("job %s failed with status %d: %s", e.Op, e.StatusCode, e.Body)
}

// envelope is the control-plane response wrapper shared by every endpoint.
type envelope struct {
	OK          bool        `json:"ok"`
	Error       string      `json:"error,omitempty"`
	Job         *jobPayload `json:"job,omitempty"`
	DownloadURL string      `json:"download_url,omitempty"`
}

type jobPayload struct {
	ID            string  `json:"id"`
	Status        Status  `json:"status"`
	Progress      float64 `json:"progress"`
	DataUploadURL string  `json:"data_upload_url,omitempty"`
}

type createRequest struct {
	Options any `json:"options"`
}

type startRequest struct {
	ID string `json:"id"`
}
