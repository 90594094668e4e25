package models

import "encoding/json"

// ActionKind tags an ActionRecord with the operation it requests.
type ActionKind string

const (
	ActionUpdateInventory ActionKind = "UPDATE_INVENTORY"
	ActionRestock         ActionKind = "RESTOCK"
	ActionRecordSale      ActionKind = "RECORD_SALE"
	ActionAddToCart       ActionKind = "ADD_TO_CART"
	ActionUpdateCart      ActionKind = "UPDATE_CART"
	ActionViewBill        ActionKind = "VIEW_BILL"
	ActionNavigateBill    ActionKind = "NAVIGATE_BILL"
	ActionCompleteSale    ActionKind = "COMPLETE_SALE"
)

// ChangeType selects how a requested quantity is applied to inventory.
type ChangeType string

const (
	ChangeAdd      ChangeType = "add"
	ChangeSubtract ChangeType = "subtract"
	ChangeSet      ChangeType = "set"
)

// ActionLine is one requested line item inside an ActionRecord. Name is
// free text from the interpretation service, not a canonical catalog name.
type ActionLine struct {
	Name       string     `json:"name"`
	Quantity   int        `json:"quantity"`
	ChangeType ChangeType `json:"changeType,omitempty"`
	Price      *float64   `json:"price,omitempty"`
}

// ActionRecord is a structured instruction produced by interpreting user
// input (voice, text, photographed ledger). It is the only way external
// collaborators request state mutations.
type ActionRecord struct {
	Kind  ActionKind   `json:"action"`
	Items []ActionLine `json:"items"`
}

// Change returns the line's change type, defaulting to add.
func (l ActionLine) Change() ChangeType {
	switch l.ChangeType {
	case ChangeSubtract, ChangeSet:
		return l.ChangeType
	default:
		return ChangeAdd
	}
}

// KnownKind reports whether the record carries one of the supported kinds.
func (a ActionRecord) KnownKind() bool {
	switch a.Kind {
	case ActionUpdateInventory, ActionRestock, ActionRecordSale,
		ActionAddToCart, ActionUpdateCart, ActionViewBill,
		ActionNavigateBill, ActionCompleteSale:
		return true
	}
	return false
}

// ParseActionRecord decodes an action payload from the interpretation
// boundary. Quantities may arrive as JSON numbers with fractions; they are
// truncated toward zero. A payload that cannot be decoded at all yields a
// zero record, which the dispatcher treats as a no-op.
func ParseActionRecord(raw []byte) ActionRecord {
	var wire struct {
		Kind  ActionKind `json:"action"`
		Items []struct {
			Name       string     `json:"name"`
			Quantity   float64    `json:"quantity"`
			ChangeType ChangeType `json:"changeType"`
			Price      *float64   `json:"price"`
		} `json:"items"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return ActionRecord{}
	}

	record := ActionRecord{Kind: wire.Kind}
	for _, it := range wire.Items {
		record.Items = append(record.Items, ActionLine{
			Name:       it.Name,
			Quantity:   int(it.Quantity),
			ChangeType: it.ChangeType,
			Price:      it.Price,
		})
	}
	return record
}
