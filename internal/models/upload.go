package models

// UploadFailureReason classifies why a single bulk upload item was skipped.
type UploadFailureReason string

const (
	UploadTargetNotFound     UploadFailureReason = "TARGET_NOT_FOUND"
	UploadMalformedInput     UploadFailureReason = "MALFORMED_INPUT"
	UploadStorageWriteFailed UploadFailureReason = "STORAGE_WRITE_FAILED"
	UploadDuplicateTarget    UploadFailureReason = "DUPLICATE_TARGET"
	UploadPersistFailed      UploadFailureReason = "PERSIST_FAILED"
)

// UploadFailure describes one failed item, Index being its position in the request.
type UploadFailure struct {
	Index   int                 `json:"index"`
	Key     string              `json:"key"`
	Reason  UploadFailureReason `json:"reason"`
	Message string              `json:"message,omitempty"`
}

// UploadBatchResult aggregates a bulk upload. Failures keep request order.
type UploadBatchResult struct {
	Total        int             `json:"total"`
	SuccessCount int             `json:"success_count"`
	Failures     []UploadFailure `json:"failures"`
}
