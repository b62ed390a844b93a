package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/mo"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/core/jobs"
)

// JobTypeReconcileReceipt is the job type handled by ReceiptJobHandler
const JobTypeReconcileReceipt = "reconcile_receipt"

// ReceiptPayload is the queued form of one receipt
type ReceiptPayload struct {
	Receipt   json.RawMessage `json:"receipt"`
	OCRVendor json.RawMessage `json:"ocr_vendor,omitempty"`
	ImageRef  string          `json:"image_ref"`
	ClientID  *int64          `json:"client_id,omitempty"`
}

// ReceiptResult is stored on the job once the receipt is recorded
type ReceiptResult struct {
	TransactionID int64  `json:"transaction_id"`
	Message       string `json:"message"`
}

type receiptProcessor interface {
	ProcessJSON(ctx context.Context, raw []byte, imageRef string, explicit mo.Option[int64]) Outcome
	ProcessCombined(ctx context.Context, structured, ocrVendor []byte, imageRef string, explicit mo.Option[int64]) Outcome
}

// ReceiptJobHandler reconciles queued receipts
type ReceiptJobHandler struct {
	processor receiptProcessor
}

func NewReceiptJobHandler(processor receiptProcessor) *ReceiptJobHandler {
	return &ReceiptJobHandler{processor: processor}
}

func (h *ReceiptJobHandler) GetType() string {
	return JobTypeReconcileReceipt
}

// Handle runs the reconciliation. An unsuccessful Outcome is returned as
// an error so the queue records it and retries.
func (h *ReceiptJobHandler) Handle(ctx context.Context, job *jobs.Job) (any, error) {
	var payload ReceiptPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return nil, fmt.Errorf("invalid receipt payload: %w", err)
	}
	if len(payload.Receipt) == 0 {
		return nil, errors.New("invalid receipt payload: missing receipt")
	}

	explicit := mo.PointerToOption(payload.ClientID)

	var out Outcome
	if len(payload.OCRVendor) > 0 {
		out = h.processor.ProcessCombined(ctx, payload.Receipt, payload.OCRVendor, payload.ImageRef, explicit)
	} else {
		out = h.processor.ProcessJSON(ctx, payload.Receipt, payload.ImageRef, explicit)
	}

	if !out.Success {
		return nil, errors.New(out.Message)
	}
	return ReceiptResult{TransactionID: out.TransactionID.MustGet(), Message: out.Message}, nil
}

// EnqueueReceipt queues a receipt for background reconciliation. The image
// reference doubles as the job reference.
func EnqueueReceipt(ctx context.Context, queue *jobs.Queue, queueName string, payload ReceiptPayload) (*jobs.Job, error) {
	opts := jobs.DefaultEnqueueOptions()
	if queueName != "" {
		opts.Queue = queueName
	}
	opts.Reference = payload.ImageRef
	return queue.Enqueue(ctx, JobTypeReconcileReceipt, payload, opts)
}
