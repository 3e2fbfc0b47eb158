package models

// AccountType classifies accounts. Debit marks the normal balance side:
// asset and expense types carry debit normal balances, liability, equity
// and income types carry credit normal balances.
type AccountType struct {
	ID               string
	Name             string
	Description      string
	BalanceSheet     bool
	Debit            bool
	RetainedEarnings bool
	Sort             int
}

// NormalSign is the multiplier that turns a raw signed balance into the
// conventional positive presentation for this type.
func (at AccountType) NormalSign() int {
	if at.Debit {
		return 1
	}
	return -1
}

type Journal struct {
	ID          string
	Name        string
	Description string
}

type Account struct {
	ID          string
	Name        string
	Description string
	TypeID      string
	JournalID   string
	RecNote     string

	// joined reference fields
	TypeName         string
	TypeBalanceSheet bool
	TypeDebit        bool
	JournalName      string
}

func (a Account) NormalSign() int {
	if a.TypeDebit {
		return 1
	}
	return -1
}

type (
	AccountTypeResponse struct {
		ID               string `json:"id"`
		Name             string `json:"atype_name"`
		Description      string `json:"description,omitempty"`
		BalanceSheet     bool   `json:"balance_sheet"`
		Debit            bool   `json:"debit"`
		RetainedEarnings bool   `json:"retained_earnings"`
		Sort             int    `json:"sort"`
	}

	JournalResponse struct {
		ID          string `json:"id"`
		Name        string `json:"jrn_name"`
		Description string `json:"description,omitempty"`
	}

	AccountResponse struct {
		ID          string `json:"id"`
		Name        string `json:"acc_name"`
		Description string `json:"description,omitempty"`
		TypeID      string `json:"type_id"`
		TypeName    string `json:"atype_name,omitempty"`
		JournalID   string `json:"journal_id"`
		JournalName string `json:"jrn_name,omitempty"`
		RecNote     string `json:"rec_note,omitempty"`
	}
)

func (at AccountType) ToResponse() AccountTypeResponse {
	return AccountTypeResponse{
		ID:               at.ID,
		Name:             at.Name,
		Description:      at.Description,
		BalanceSheet:     at.BalanceSheet,
		Debit:            at.Debit,
		RetainedEarnings: at.RetainedEarnings,
		Sort:             at.Sort,
	}
}

func (j Journal) ToResponse() JournalResponse {
	return JournalResponse{
		ID:          j.ID,
		Name:        j.Name,
		Description: j.Description,
	}
}

func (a Account) ToResponse() AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		TypeID:      a.TypeID,
		TypeName:    a.TypeName,
		JournalID:   a.JournalID,
		JournalName: a.JournalName,
		RecNote:     a.RecNote,
	}
}
