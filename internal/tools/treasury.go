package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stewardhq/steward/internal/schema"
	"github.com/stewardhq/steward/internal/store"
)

type transactionView struct {
	ID          string  `json:"id"`
	MemberID    string  `json:"member_id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func viewTransaction(tx store.Transaction) transactionView {
	return transactionView{
		ID:          tx.ID,
		MemberID:    tx.MemberID,
		Type:        tx.Type,
		Amount:      centsToDollars(tx.AmountCents),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
}

// ListTransactionsTool lists payment transactions, optionally for one member.
type ListTransactionsTool struct {
	store store.Store
}

func (t *ListTransactionsTool) Name() string { return string(ToolListTransactions) }
func (t *ListTransactionsTool) Description() string {
	return "List payment transactions for the organization, optionally filtered to a single member."
}
func (t *ListTransactionsTool) Kind() schema.ToolKind { return schema.KindRead }
func (t *ListTransactionsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"},
			"member_id": {"type": "string", "description": "Restrict to this member's transactions"}
		},
		"required": ["organization_id"]
	}`)
}

func (t *ListTransactionsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	txs, err := t.store.ListTransactions(ctx, orgID, strParam(params, "member_id"))
	if err != nil {
		return "", err
	}
	views := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, viewTransaction(tx))
	}
	return jsonResult(map[string]any{"transactions": views, "count": len(views)})
}

// MemberBalanceTool reports what a member currently owes.
type MemberBalanceTool struct {
	store store.Store
}

func (t *MemberBalanceTool) Name() string { return string(ToolMemberBalance) }
func (t *MemberBalanceTool) Description() string {
	return "Get a member's outstanding balance. Charges and dues add to the balance, payments reduce it."
}
func (t *MemberBalanceTool) Kind() schema.ToolKind { return schema.KindRead }
func (t *MemberBalanceTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"},
			"member_id": {"type": "string", "description": "ID of the member, from find_member"}
		},
		"required": ["organization_id", "member_id"]
	}`)
}

func (t *MemberBalanceTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	memberID, err := requireStr(params, "member_id")
	if err != nil {
		return "", err
	}
	cents, err := t.store.MemberBalance(ctx, orgID, memberID)
	if err != nil {
		return "", err
	}
	return jsonResult(map[string]any{
		"member_id": memberID,
		"balance":   centsToDollars(cents),
		"owes":      cents > 0,
	})
}

// RecordTransactionTool records a charge, payment or dues entry.
type RecordTransactionTool struct {
	store store.Store
}

func (t *RecordTransactionTool) Name() string { return string(ToolRecordTransaction) }
func (t *RecordTransactionTool) Description() string {
	return "Record a financial transaction against a member: a charge, a payment, or dues."
}
func (t *RecordTransactionTool) Kind() schema.ToolKind { return schema.KindWrite }
func (t *RecordTransactionTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"},
			"member_id": {"type": "string", "description": "ID of the member, from find_member"},
			"type": {"type": "string", "enum": ["charge", "payment", "dues"], "description": "Kind of transaction"},
			"amount": {"type": "number", "description": "Amount in dollars, e.g. 25.50"},
			"description": {"type": "string", "description": "What the transaction is for"}
		},
		"required": ["organization_id", "member_id", "type", "amount", "description"]
	}`)
}

func (t *RecordTransactionTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	memberID, err := requireStr(params, "member_id")
	if err != nil {
		return "", err
	}
	txType, err := requireStr(params, "type")
	if err != nil {
		return "", err
	}
	if err := oneOf(txType, "charge", "payment", "dues"); err != nil {
		return "", err
	}
	amount, err := requireNum(params, "amount")
	if err != nil {
		return "", err
	}
	description, err := requireStr(params, "description")
	if err != nil {
		return "", err
	}

	created, err := t.store.RecordTransaction(ctx, store.Transaction{
		OrgID:       orgID,
		MemberID:    memberID,
		Type:        txType,
		AmountCents: dollarsToCents(amount),
		Description: description,
	})
	if err != nil {
		return "", err
	}
	return jsonResult(map[string]any{"created": viewTransaction(created)})
}
