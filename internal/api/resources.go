package api

import (
	"context"
	"fmt"
	"net/http"
)

// Reference data endpoints. Each follows the shared envelope and error
// contract; no special logic beyond normalization.

// EducationLevels lists the available education levels.
func (c *Client) EducationLevels(ctx context.Context) ([]ReferenceItem, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/education-levels", nil)
	if err != nil {
		return nil, err
	}
	return DecodeListInto[ReferenceItem](raw, "education_levels")
}

// Classes lists the classes of one education level.
func (c *Client) Classes(ctx context.Context, levelID int) ([]ReferenceItem, error) {
	raw, err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/classes/%d", levelID), nil)
	if err != nil {
		return nil, err
	}
	return DecodeListInto[ReferenceItem](raw, "classes")
}

// Subjects lists the subjects of one class.
func (c *Client) Subjects(ctx context.Context, classID int) ([]ReferenceItem, error) {
	raw, err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/subjects/%d", classID), nil)
	if err != nil {
		return nil, err
	}
	return DecodeListInto[ReferenceItem](raw, "subjects")
}

// Banks lists the supported payout banks.
func (c *Client) Banks(ctx context.Context) ([]ReferenceItem, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/banks", nil)
	if err != nil {
		return nil, err
	}
	return DecodeListInto[ReferenceItem](raw, "banks")
}

// Teacher endpoints.

// TeacherSubjects lists the subjects assigned to the teacher account.
func (c *Client) TeacherSubjects(ctx context.Context) ([]TeacherSubject, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/teacher/subjects", nil)
	if err != nil {
		return nil, err
	}
	return DecodeListInto[TeacherSubject](raw)
}

// AddTeacherSubjects assigns subjects to the teacher account.
func (c *Client) AddTeacherSubjects(ctx context.Context, subjectIDs []int) error {
	body, err := JSONBody(map[string][]int{"subjects_id": subjectIDs})
	if err != nil {
		return err
	}
	_, err = c.Do(ctx, http.MethodPost, "/teacher/subjects", body)
	return err
}

// TeacherCourses lists the teacher's courses.
func (c *Client) TeacherCourses(ctx context.Context) ([]Course, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/teacher/courses", nil)
	if err != nil {
		return nil, err
	}
	return DecodeListInto[Course](raw)
}

// TeacherOrders lists open student lesson requests.
func (c *Client) TeacherOrders(ctx context.Context) ([]Order, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/teacher/orders/browse", nil)
	if err != nil {
		return nil, err
	}
	return DecodeListInto[Order](raw)
}

// ApplyToOrder applies the teacher to an open order.
func (c *Client) ApplyToOrder(ctx context.Context, orderID int) error {
	_, err := c.Do(ctx, http.MethodPost, fmt.Sprintf("/teacher/orders/%d/apply", orderID), nil)
	return err
}

// TeacherWallet returns the teacher's balance summary.
func (c *Client) TeacherWallet(ctx context.Context) (*Wallet, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/teacher/wallet", nil)
	if err != nil {
		return nil, err
	}
	wallet, err := DecodeObjectInto[Wallet](raw)
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Withdraw requests a payout to a saved payment method.
func (c *Client) Withdraw(ctx context.Context, amount float64, paymentMethodID int) error {
	body, err := JSONBody(map[string]any{
		"amount":            amount,
		"payment_method_id": paymentMethodID,
	})
	if err != nil {
		return err
	}
	_, err = c.Do(ctx, http.MethodPost, "/teacher/wallet/withdraw", body)
	return err
}

// PaymentMethods lists the teacher's saved payout destinations.
func (c *Client) PaymentMethods(ctx context.Context) ([]BankAccount, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/teacher/payment-methods", nil)
	if err != nil {
		return nil, err
	}
	return DecodeListInto[BankAccount](raw)
}

// AddPaymentMethodRequest is the payload for saving a payout destination.
type AddPaymentMethodRequest struct {
	BankID            int    `json:"bank_id" validate:"required"`
	AccountNumber     string `json:"account_number" validate:"required"`
	AccountHolderName string `json:"account_holder_name" validate:"required"`
	IBAN              string `json:"iban" validate:"required"`
	SwiftCode         string `json:"swift_code,omitempty"`
}

// AddPaymentMethod saves a new payout destination.
func (c *Client) AddPaymentMethod(ctx context.Context, req AddPaymentMethodRequest) error {
	if err := ValidateInput(req); err != nil {
		return err
	}
	body, err := JSONBody(req)
	if err != nil {
		return err
	}
	_, err = c.Do(ctx, http.MethodPost, "/teacher/payment-methods", body)
	return err
}

// SetDefaultPaymentMethod marks a payout destination as default.
func (c *Client) SetDefaultPaymentMethod(ctx context.Context, id int) error {
	_, err := c.Do(ctx, http.MethodPost, fmt.Sprintf("/teacher/payment-methods/set-default/%d", id), nil)
	return err
}

// DeletePaymentMethod removes a payout destination.
func (c *Client) DeletePaymentMethod(ctx context.Context, id int) error {
	_, err := c.Do(ctx, http.MethodDelete, fmt.Sprintf("/teacher/payment-methods/%d", id), nil)
	return err
}

// UpdateTeacherInfo updates the teacher's public info.
func (c *Client) UpdateTeacherInfo(ctx context.Context, fields map[string]any) error {
	body, err := JSONBody(fields)
	if err != nil {
		return err
	}
	_, err = c.Do(ctx, http.MethodPost, "/teacher/info", body)
	return err
}

// Student endpoints.

// StudentServices lists the bookable services shown to students.
func (c *Client) StudentServices(ctx context.Context) ([]Service, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/student/services", nil)
	if err != nil {
		return nil, err
	}
	return DecodeListInto[Service](raw)
}

// StudentTeachers lists the teacher cards shown to students.
func (c *Client) StudentTeachers(ctx context.Context) ([]TeacherSummary, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/student/teachers", nil)
	if err != nil {
		return nil, err
	}
	return DecodeListInto[TeacherSummary](raw)
}
