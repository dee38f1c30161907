package customer

import (
	"fmt"
	"slices"
)

// Kind is the value type of a record field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// Field describes one column of the customer schema.
type Field struct {
	Name string
	Kind Kind
}

// Column names as the model was trained on them.
const (
	FieldCustomerID       = "customerID"
	FieldGender           = "gender"
	FieldSeniorCitizen    = "SeniorCitizen"
	FieldPartner          = "Partner"
	FieldDependents       = "Dependents"
	FieldTenure           = "tenure"
	FieldPhoneService     = "PhoneService"
	FieldMultipleLines    = "MultipleLines"
	FieldInternetService  = "InternetService"
	FieldOnlineSecurity   = "OnlineSecurity"
	FieldOnlineBackup     = "OnlineBackup"
	FieldDeviceProtection = "DeviceProtection"
	FieldTechSupport      = "TechSupport"
	FieldStreamingTV      = "StreamingTV"
	FieldStreamingMovies  = "StreamingMovies"
	FieldContract         = "Contract"
	FieldPaperlessBilling = "PaperlessBilling"
	FieldPaymentMethod    = "PaymentMethod"
	FieldMonthlyCharges   = "MonthlyCharges"
	FieldTotalCharges     = "TotalCharges"
)

var schema = []Field{
	{FieldCustomerID, KindString},
	{FieldGender, KindString},
	{FieldSeniorCitizen, KindInt},
	{FieldPartner, KindString},
	{FieldDependents, KindString},
	{FieldTenure, KindInt},
	{FieldPhoneService, KindString},
	{FieldMultipleLines, KindString},
	{FieldInternetService, KindString},
	{FieldOnlineSecurity, KindString},
	{FieldOnlineBackup, KindString},
	{FieldDeviceProtection, KindString},
	{FieldTechSupport, KindString},
	{FieldStreamingTV, KindString},
	{FieldStreamingMovies, KindString},
	{FieldContract, KindString},
	{FieldPaperlessBilling, KindString},
	{FieldPaymentMethod, KindString},
	{FieldMonthlyCharges, KindFloat},
	{FieldTotalCharges, KindFloat},
}

// Schema returns the 20 record fields in their canonical order.
func Schema() []Field {
	return slices.Clone(schema)
}

// Lookup returns the schema field with the given column name.
func Lookup(name string) (Field, bool) {
	for _, f := range schema {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Record is a single customer row.
type Record struct {
	CustomerID       string  `json:"customerID" yaml:"customerID"`
	Gender           string  `json:"gender" yaml:"gender"`
	SeniorCitizen    int     `json:"SeniorCitizen" yaml:"SeniorCitizen"`
	Partner          string  `json:"Partner" yaml:"Partner"`
	Dependents       string  `json:"Dependents" yaml:"Dependents"`
	Tenure           int     `json:"tenure" yaml:"tenure"`
	PhoneService     string  `json:"PhoneService" yaml:"PhoneService"`
	MultipleLines    string  `json:"MultipleLines" yaml:"MultipleLines"`
	InternetService  string  `json:"InternetService" yaml:"InternetService"`
	OnlineSecurity   string  `json:"OnlineSecurity" yaml:"OnlineSecurity"`
	OnlineBackup     string  `json:"OnlineBackup" yaml:"OnlineBackup"`
	DeviceProtection string  `json:"DeviceProtection" yaml:"DeviceProtection"`
	TechSupport      string  `json:"TechSupport" yaml:"TechSupport"`
	StreamingTV      string  `json:"StreamingTV" yaml:"StreamingTV"`
	StreamingMovies  string  `json:"StreamingMovies" yaml:"StreamingMovies"`
	Contract         string  `json:"Contract" yaml:"Contract"`
	PaperlessBilling string  `json:"PaperlessBilling" yaml:"PaperlessBilling"`
	PaymentMethod    string  `json:"PaymentMethod" yaml:"PaymentMethod"`
	MonthlyCharges   float64 `json:"MonthlyCharges" yaml:"MonthlyCharges"`
	TotalCharges     float64 `json:"TotalCharges" yaml:"TotalCharges"`
}

// Value returns the value of the named column. The dynamic type is
// string, int or float64 according to the field's Kind.
func (r *Record) Value(name string) (any, error) {
	switch name {
	case FieldCustomerID:
		return r.CustomerID, nil
	case FieldGender:
		return r.Gender, nil
	case FieldSeniorCitizen:
		return r.SeniorCitizen, nil
	case FieldPartner:
		return r.Partner, nil
	case FieldDependents:
		return r.Dependents, nil
	case FieldTenure:
		return r.Tenure, nil
	case FieldPhoneService:
		return r.PhoneService, nil
	case FieldMultipleLines:
		return r.MultipleLines, nil
	case FieldInternetService:
		return r.InternetService, nil
	case FieldOnlineSecurity:
		return r.OnlineSecurity, nil
	case FieldOnlineBackup:
		return r.OnlineBackup, nil
	case FieldDeviceProtection:
		return r.DeviceProtection, nil
	case FieldTechSupport:
		return r.TechSupport, nil
	case FieldStreamingTV:
		return r.StreamingTV, nil
	case FieldStreamingMovies:
		return r.StreamingMovies, nil
	case FieldContract:
		return r.Contract, nil
	case FieldPaperlessBilling:
		return r.PaperlessBilling, nil
	case FieldPaymentMethod:
		return r.PaymentMethod, nil
	case FieldMonthlyCharges:
		return r.MonthlyCharges, nil
	case FieldTotalCharges:
		return r.TotalCharges, nil
	default:
		return nil, fmt.Errorf("unknown customer field: %s", name)
	}
}

// Validate checks that every string field carries a value.
func (r *Record) Validate() error {
	if r == nil {
		return fmt.Errorf("customer record required")
	}
	for _, f := range schema {
		if f.Kind != KindString {
			continue
		}
		v, err := r.Value(f.Name)
		if err != nil {
			return err
		}
		if v.(string) == "" {
			return &MissingFieldError{Field: f.Name}
		}
	}
	return nil
}

// MissingFieldError reports an empty required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field %s is empty", e.Field)
}
