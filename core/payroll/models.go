package payroll

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/hsandamith/School-Management-System/core"
)

type EmployeeType string

const (
	EmployeeTeacher   EmployeeType = "teacher"
	EmployeeAssistant EmployeeType = "teaching_assistant"
)

func (t EmployeeType) IsValid() bool {
	switch t {
	case EmployeeTeacher, EmployeeAssistant:
		return true
	}
	return false
}

type PaymentPeriod string

const (
	PeriodWeekly   PaymentPeriod = "weekly"
	PeriodMonthly  PaymentPeriod = "monthly"
	PeriodTermly   PaymentPeriod = "termly"
	PeriodAnnually PaymentPeriod = "annually"
)

func (p PaymentPeriod) IsValid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodTermly, PeriodAnnually:
		return true
	}
	return false
}

// Salary is one payment made to a teacher or a teaching assistant.
type Salary struct {
	ID             int64         `json:"id" db:"id"`
	EmployeeID     int64         `json:"employee_id" db:"employee_id"`
	EmployeeType   EmployeeType  `json:"employee_type" db:"employee_type"`
	Amount         core.Money    `json:"amount" db:"amount"`
	PaymentDate    core.Date     `json:"payment_date" db:"payment_date"`
	TaxInformation null.String   `json:"tax_information" db:"tax_information"`
	PaymentPeriod  PaymentPeriod `json:"payment_period" db:"payment_period"`
	EmployeeName   null.String   `json:"employee_name" db:"employee_name"`
}

// SalaryForm is used to record or fully update a Salary.
type SalaryForm struct {
	EmployeeID     int64         `json:"employee_id" validate:"required,gt=0"`
	EmployeeType   EmployeeType  `json:"employee_type" validate:"required,enum"`
	Amount         core.Money    `json:"amount" validate:"gt=0"`
	PaymentDate    core.Date     `json:"payment_date" validate:"required"`
	TaxInformation string        `json:"tax_information"`
	PaymentPeriod  PaymentPeriod `json:"payment_period" validate:"required,enum"`
}

func (f *SalaryForm) Validate(validate *validator.Validate) error {
	f.EmployeeType = EmployeeType(core.CleanString(string(f.EmployeeType), true /* lower */))
	f.PaymentPeriod = PaymentPeriod(core.CleanString(string(f.PaymentPeriod), true /* lower */))
	if f.PaymentPeriod == "" {
		f.PaymentPeriod = PeriodMonthly
	}
	f.TaxInformation = core.CleanString(f.TaxInformation)
	return validate.Struct(f)
}

func (f SalaryForm) salary() Salary {
	return Salary{
		EmployeeID:     f.EmployeeID,
		EmployeeType:   f.EmployeeType,
		Amount:         f.Amount,
		PaymentDate:    f.PaymentDate,
		TaxInformation: null.NewString(f.TaxInformation, f.TaxInformation != ""),
		PaymentPeriod:  f.PaymentPeriod,
	}
}

type QueryFilter struct {
	EmployeeType EmployeeType `query:"employee_type"`
	EmployeeID   int64        `query:"employee_id"`
}

func (f *QueryFilter) Clean() {
	f.EmployeeType = EmployeeType(core.CleanString(string(f.EmployeeType), true /* lower */))
	if !f.EmployeeType.IsValid() {
		f.EmployeeType = ""
	}
}
