package models

// PersonDTO is the wire representation of a Person.
type PersonDTO struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	CreditBalance float64 `json:"credit_balance"`
	DebitBalance  float64 `json:"debit_balance"`
}

// DTO converts the person to its wire form.
func (p *Person) DTO() PersonDTO {
	return PersonDTO{
		ID:            p.ID,
		Name:          p.Name,
		CreditBalance: p.CreditBalance,
		DebitBalance:  p.DebitBalance,
	}
}

// PersonFromDTO converts a wire person back to the domain type. Balances
// absent on the wire decode as 0.0.
func PersonFromDTO(d PersonDTO) *Person {
	return &Person{
		ID:            d.ID,
		Name:          d.Name,
		CreditBalance: d.CreditBalance,
		DebitBalance:  d.DebitBalance,
	}
}

// ExpenseDTO is the wire representation of an Expense. NumFriends is a
// pointer so that an absent field can be told apart from an explicit zero.
type ExpenseDTO struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	PayerID     string  `json:"payer_id,omitempty"`
	NumFriends  *int    `json:"num_friends,omitempty"`
}

// DTO converts the expense to its wire form.
func (e *Expense) DTO() ExpenseDTO {
	count := e.ParticipantCount
	return ExpenseDTO{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
		PayerID:     e.PayerID,
		NumFriends:  &count,
	}
}

// ExpenseFromDTO converts a wire expense back to the domain type. A missing
// participant count defaults to 1; conversion never fails.
func ExpenseFromDTO(d ExpenseDTO) *Expense {
	count := 1
	if d.NumFriends != nil {
		count = *d.NumFriends
	}
	return &Expense{
		ID:               d.ID,
		Description:      d.Description,
		Amount:           d.Amount,
		Date:             d.Date,
		PayerID:          d.PayerID,
		ParticipantCount: count,
	}
}

// ShareDTO is the wire representation of a Share.
type ShareDTO struct {
	CreditBalance float64 `json:"credit_balance"`
	DebitBalance  float64 `json:"debit_balance"`
}

// ShareFromDTO converts a wire share back to the domain type.
func ShareFromDTO(d ShareDTO) *Share {
	return &Share{CreditBalance: d.CreditBalance, DebitBalance: d.DebitBalance}
}

// DTO converts the share to its wire form.
func (s *Share) DTO() ShareDTO {
	return ShareDTO{CreditBalance: s.CreditBalance, DebitBalance: s.DebitBalance}
}

// PersonShareDTO is the wire representation of one row of a person's
// expense-share listing.
type PersonShareDTO struct {
	ExpenseID     string  `json:"expense_id"`
	CreditBalance float64 `json:"credit_balance"`
	DebitBalance  float64 `json:"debit_balance"`
}

// PersonShareFromDTO converts a wire person-share row to the domain type.
func PersonShareFromDTO(d PersonShareDTO) *PersonShare {
	return &PersonShare{
		ExpenseID: d.ExpenseID,
		Share:     Share{CreditBalance: d.CreditBalance, DebitBalance: d.DebitBalance},
	}
}

// DTO converts the person-share row to its wire form.
func (s *PersonShare) DTO() PersonShareDTO {
	return PersonShareDTO{
		ExpenseID:     s.ExpenseID,
		CreditBalance: s.CreditBalance,
		DebitBalance:  s.DebitBalance,
	}
}
