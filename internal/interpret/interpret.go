// Package interpret adapts a language model into the action interpretation
// collaborator: free text in, a typed action record out. The reconciliation
// core never imports this package; it only ever sees the resulting record.
package interpret

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dukaan/internal/models"

	"github.com/tmc/langchaingo/llms"
)

// ErrUnusableReply is returned when the model's reply carries no action the
// dispatcher recognizes. Callers should treat it as "nothing to do", not as
// a broken shop.
var ErrUnusableReply = errors.New("interpreter: model reply carried no usable action")

// Interpreter turns shopkeeper utterances into action records.
type Interpreter struct {
	model llms.LLM
}

// New wraps a language model.
func New(model llms.LLM) *Interpreter {
	return &Interpreter{model: model}
}

// Interpret asks the model to classify the utterance against the current
// catalog and parses its JSON reply into an action record. Item names in
// the reply stay free text; canonical matching is the resolver's job.
func (in *Interpreter) Interpret(ctx context.Context, utterance string, catalog []models.InventoryItem) (models.ActionRecord, error) {
	prompt := buildPrompt(utterance, catalog)

	reply, err := llms.GenerateFromSinglePrompt(ctx, in.model, prompt)
	if err != nil {
		return models.ActionRecord{}, fmt.Errorf("interpreter: model call failed: %w", err)
	}

	record := models.ParseActionRecord([]byte(extractJSON(reply)))
	if !record.KnownKind() {
		return models.ActionRecord{}, ErrUnusableReply
	}
	return record, nil
}

func buildPrompt(utterance string, catalog []models.InventoryItem) string {
	var b strings.Builder
	b.WriteString("You convert a shopkeeper's request into one JSON action for a point-of-sale system.\n")
	b.WriteString("Reply with JSON only, shaped as:\n")
	b.WriteString(`{"action":"KIND","items":[{"name":"...","quantity":1,"changeType":"add|subtract|set","price":0}]}` + "\n")
	b.WriteString("KIND is one of UPDATE_INVENTORY, RESTOCK, RECORD_SALE, ADD_TO_CART, UPDATE_CART, VIEW_BILL, NAVIGATE_BILL, COMPLETE_SALE.\n")
	b.WriteString("changeType defaults to add; omit price when the shopkeeper did not say one.\n")

	if len(catalog) > 0 {
		b.WriteString("Products currently in the shop: ")
		for i, item := range catalog {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(item.Name)
		}
		b.WriteString(".\n")
	}

	b.WriteString("Request: ")
	b.WriteString(utterance)
	return b.String()
}

// extractJSON tolerates markdown fences and prose around the model's JSON.
func extractJSON(reply string) string {
	reply = strings.TrimSpace(reply)
	if i := strings.Index(reply, "```"); i >= 0 {
		reply = reply[i+3:]
		reply = strings.TrimPrefix(reply, "json")
		if j := strings.Index(reply, "```"); j >= 0 {
			reply = reply[:j]
		}
	}
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return ""
	}
	return reply[start : end+1]
}
