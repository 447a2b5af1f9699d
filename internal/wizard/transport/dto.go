package transport

import (
	availability "appraisal_portal_backend/internal/availability/domain"
	"appraisal_portal_backend/internal/properties"
	"appraisal_portal_backend/internal/wizard/domain"
)

// Action types accepted by POST /quote-sessions/:id/actions.
const (
	ActionMergeContact       = "mergeContact"
	ActionToggleService      = "toggleService"
	ActionSelectDate         = "selectDate"
	ActionSelectTime         = "selectTime"
	ActionSetSquareFootage   = "setSquareFootage"
	ActionUpdateAppraisal    = "updateAppraisal"
	ActionAddIntendedUser    = "addIntendedUser"
	ActionRemoveIntendedUser = "removeIntendedUser"
	ActionUpdateIntendedUser = "updateIntendedUser"
	ActionNext               = "next"
	ActionBack               = "back"
	ActionGoToStep           = "goToStep"
	ActionSetDiscountCode    = "setDiscountCode"
	ActionAcceptTerms        = "acceptTerms"
	ActionRequestClose       = "requestClose"
	ActionConfirmClose       = "confirmClose"
	ActionCancelClose        = "cancelClose"
)

type CreateSessionRequest struct {
	Property properties.PropertyInfo `json:"property"`
}

// ActionRequest is one client action. Which fields are read depends on Type;
// nil pointers leave the field unchanged.
type ActionRequest struct {
	Type string `json:"type" validate:"required,oneof=mergeContact toggleService selectDate selectTime setSquareFootage updateAppraisal addIntendedUser removeIntendedUser updateIntendedUser next back goToStep setDiscountCode acceptTerms requestClose confirmClose cancelClose"`

	FirstName      *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName       *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email          *string `json:"email,omitempty" validate:"omitempty,max=254"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Company        *string `json:"company,omitempty" validate:"omitempty,max=200"`
	ReferralSource *string `json:"referralSource,omitempty" validate:"omitempty,max=100"`
	ReferralOther  *string `json:"referralOther,omitempty" validate:"omitempty,max=200"`

	ServiceID string `json:"serviceId,omitempty" validate:"max=100"`
	Date      string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time      string `json:"time,omitempty" validate:"max=10"`
	Value     string `json:"value,omitempty" validate:"max=20"`

	PropertyType      *string `json:"propertyType,omitempty" validate:"omitempty,max=100"`
	InterestAppraised *string `json:"interestAppraised,omitempty" validate:"omitempty,max=100"`
	IntendedUse       *string `json:"intendedUse,omitempty" validate:"omitempty,max=100"`
	IntendedUseOther  *string `json:"intendedUseOther,omitempty" validate:"omitempty,max=200"`
	TypeOfValue       *string `json:"typeOfValue,omitempty" validate:"omitempty,max=100"`
	EffectiveDate     *string `json:"effectiveDate,omitempty" validate:"omitempty,max=10"`
	ReportOption      *string `json:"reportOption,omitempty" validate:"omitempty,max=100"`
	Notes             *string `json:"notes,omitempty" validate:"omitempty,max=2000"`

	Index *int    `json:"index,omitempty" validate:"omitempty,min=0,max=10"`
	Name  *string `json:"name,omitempty" validate:"omitempty,max=200"`

	Step     int    `json:"step,omitempty" validate:"omitempty,min=1,max=4"`
	Code     string `json:"code" validate:"max=50"`
	Accepted bool   `json:"accepted"`
}

// ToAction maps the request onto the reducer action of the same name.
func (r ActionRequest) ToAction() domain.Action {
	switch r.Type {
	case ActionMergeContact:
		return domain.MergeContact{
			FirstName:      r.FirstName,
			LastName:       r.LastName,
			Email:          r.Email,
			Phone:          r.Phone,
			Company:        r.Company,
			ReferralSource: r.ReferralSource,
			ReferralOther:  r.ReferralOther,
		}
	case ActionToggleService:
		return domain.ToggleService{ServiceID: r.ServiceID}
	case ActionSelectDate:
		return domain.SelectDate{Date: r.Date}
	case ActionSelectTime:
		return domain.SelectTime{Time: r.Time}
	case ActionSetSquareFootage:
		return domain.SetSquareFootage{Value: r.Value}
	case ActionUpdateAppraisal:
		return domain.UpdateAppraisal{
			PropertyType:      r.PropertyType,
			InterestAppraised: r.InterestAppraised,
			IntendedUse:       r.IntendedUse,
			IntendedUseOther:  r.IntendedUseOther,
			TypeOfValue:       r.TypeOfValue,
			EffectiveDate:     r.EffectiveDate,
			ReportOption:      r.ReportOption,
			Notes:             r.Notes,
		}
	case ActionAddIntendedUser:
		return domain.AddIntendedUser{}
	case ActionRemoveIntendedUser:
		return domain.RemoveIntendedUser{Index: index(r.Index)}
	case ActionUpdateIntendedUser:
		return domain.UpdateIntendedUser{Index: index(r.Index), Name: r.Name, Email: r.Email}
	case ActionNext:
		return domain.Next{}
	case ActionBack:
		return domain.Back{}
	case ActionGoToStep:
		return domain.GoToStep{Step: domain.Step(r.Step)}
	case ActionSetDiscountCode:
		return domain.SetDiscountCode{Code: r.Code}
	case ActionAcceptTerms:
		return domain.AcceptTerms{Accepted: r.Accepted}
	case ActionRequestClose:
		return domain.RequestClose{}
	case ActionConfirmClose:
		return domain.ConfirmClose{}
	case ActionCancelClose:
		return domain.CancelClose{}
	}
	return nil
}

func index(i *int) int {
	if i == nil {
		return -1
	}
	return *i
}

type CloseRequest struct {
	Confirm bool `form:"confirm"`
}

type SlotsRequest struct {
	Date string `form:"date" validate:"required,datetime=2006-01-02"`
}

// SessionResponse is the session as the client renders it.
type SessionResponse struct {
	domain.State
	StepName           string   `json:"stepName"`
	DiscountAmount     float64  `json:"discountAmount"`
	Total              float64  `json:"total"`
	NeedsSquareFootage bool     `json:"needsSquareFootage"`
	AppraisalStep      bool     `json:"appraisalStep"`
	TimeOptions        []string `json:"timeOptions"`
}

func ToSessionResponse(s domain.State) SessionResponse {
	return SessionResponse{
		State:              s,
		StepName:           s.Step.String(),
		DiscountAmount:     s.DiscountAmount(),
		Total:              s.Total(),
		NeedsSquareFootage: s.NeedsSquareFootage(),
		AppraisalStep:      s.Form.AppraisalSelected(),
		TimeOptions:        availability.CandidateTimes(),
	}
}

// ActionErrorResponse is returned with 422 when a step does not validate.
type ActionErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
	Session SessionResponse   `json:"session"`
}

type SlotsResponse struct {
	Date       string              `json:"date"`
	Selectable bool                `json:"selectable"`
	Slots      []availability.Slot `json:"slots"`
}

// AppraisalOptionsResponse lists the choices offered on the appraisal step.
type AppraisalOptionsResponse struct {
	PropertyTypes      []string `json:"propertyTypes"`
	InterestsAppraised []string `json:"interestsAppraised"`
	IntendedUses       []string `json:"intendedUses"`
	ValueTypes         []string `json:"valueTypes"`
	ReportOptions      []string `json:"reportOptions"`
	MaxIntendedUsers   int      `json:"maxIntendedUsers"`
}

func AppraisalOptions() AppraisalOptionsResponse {
	return AppraisalOptionsResponse{
		PropertyTypes:      domain.PropertyTypes,
		InterestsAppraised: domain.InterestsAppraised,
		IntendedUses:       domain.IntendedUses,
		ValueTypes:         domain.ValueTypes,
		ReportOptions:      domain.ReportOptions,
		MaxIntendedUsers:   domain.MaxIntendedUsers,
	}
}
