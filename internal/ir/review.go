package ir

import "strings"

// reviewKeyPrefix marks engine-private bookkeeping embedded in blocks.
// Every key with this prefix is removed by Strip before persistence.
const reviewKeyPrefix = "_review"

const (
	keyReviewStatus     = "_reviewStatus"
	keyReviewMethod     = "_reviewMethod"
	keyReviewBackend    = "_reviewBackend"
	keyReviewBackendIdx = "_reviewBackendIndex"
	keyReviewReason     = "_reviewReason"
	keyReviewRenderable = "_reviewRenderable"
)

// Status classifies a reviewed block.
type Status string

const (
	StatusValid    Status = "valid"
	StatusRepaired Status = "repaired"
	StatusFailed   Status = "failed"
)

// Method records which repair tier produced the terminal outcome.
type Method string

const (
	MethodNone    Method = "none"
	MethodLocal   Method = "local"
	MethodBackend Method = "backend"
)

// Outcome is the terminal review classification embedded in a block.
// It is written exactly once per tree instance; later traversals read it
// back instead of re-running validation or repair.
type Outcome struct {
	Status       Status
	Method       Method
	Backend      string
	BackendIndex int
	Reason       string
}

// Reviewed reports whether the block already carries a terminal outcome.
func (b Block) Reviewed() bool {
	_, ok := AsString(b[keyReviewStatus])
	return ok
}

// Outcome returns the block's embedded review outcome, if any.
func (b Block) Outcome() (Outcome, bool) {
	status, ok := AsString(b[keyReviewStatus])
	if !ok {
		return Outcome{}, false
	}
	out := Outcome{Status: Status(status), Method: MethodNone, BackendIndex: -1}
	if m, ok := AsString(b[keyReviewMethod]); ok {
		out.Method = Method(m)
	}
	if name, ok := AsString(b[keyReviewBackend]); ok {
		out.Backend = name
	}
	if idx, ok := Number(b[keyReviewBackendIdx]); ok {
		out.BackendIndex = int(idx)
	}
	if reason, ok := AsString(b[keyReviewReason]); ok {
		out.Reason = reason
	}
	return out, true
}

// MarkValid records that the block passed validation untouched.
func (b Block) MarkValid() {
	b[keyReviewStatus] = string(StatusValid)
	b[keyReviewMethod] = string(MethodNone)
}

// MarkRepairedLocal records a successful deterministic local repair.
func (b Block) MarkRepairedLocal() {
	b[keyReviewStatus] = string(StatusRepaired)
	b[keyReviewMethod] = string(MethodLocal)
}

// MarkRepairedBackend records a successful repair by the backend chain.
func (b Block) MarkRepairedBackend(index int, name string) {
	b[keyReviewStatus] = string(StatusRepaired)
	b[keyReviewMethod] = string(MethodBackend)
	b[keyReviewBackendIdx] = index
	b[keyReviewBackend] = name
}

// MarkFailed records repair exhaustion. The block is flagged non-renderable
// so consuming renderers emit an explicit placeholder instead of crashing.
func (b Block) MarkFailed(reason string) {
	b[keyReviewStatus] = string(StatusFailed)
	b[keyReviewMethod] = string(MethodNone)
	b[keyReviewReason] = reason
	b[keyReviewRenderable] = false
}

// Renderable reports whether a renderer may attempt the block. Unreviewed
// blocks are renderable by default; only a failed review clears the flag.
func (b Block) Renderable() bool {
	if v, ok := b[keyReviewRenderable].(bool); ok {
		return v
	}
	return true
}

// Strip returns a deep copy of the document with every engine-private
// review key removed, suitable for persistence. The input is not modified.
func Strip(doc Document) Document {
	cleaned := doc.Clone()
	Walk(cleaned, func(block Block, _ Block) {
		for key := range block {
			if strings.HasPrefix(key, reviewKeyPrefix) {
				delete(block, key)
			}
		}
	})
	return cleaned
}
