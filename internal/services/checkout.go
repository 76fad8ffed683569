package service

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/zahrabeauty/storefront/internal/api"
	"github.com/zahrabeauty/storefront/internal/availability"
	"github.com/zahrabeauty/storefront/internal/config"
	"github.com/zahrabeauty/storefront/internal/models"
)

// CheckoutState tracks the modal's lifecycle:
// Idle -> FormOpen -> Submitting -> Success | Failure, back to FormOpen
// after a Failure and to Idle on close.
type CheckoutState string

const (
	StateIdle       CheckoutState = "idle"
	StateFormOpen   CheckoutState = "form_open"
	StateSubmitting CheckoutState = "submitting"
	StateSuccess    CheckoutState = "success"
	StateFailure    CheckoutState = "failure"
)

// Remediation names the screen a failed entry guard routes the user to
// instead of opening the form.
type Remediation string

const (
	RemediationNone        Remediation = ""
	RemediationBasket      Remediation = "basket"
	RemediationLogin       Remediation = "login"
	RemediationVerifyEmail Remediation = "verify_email"
	RemediationStorePicker Remediation = "store_picker"
)

const (
	msgBasketEmpty       = "The basket is empty"
	msgLoginRequired     = "Please sign in before completing the order"
	msgVerifyRequired    = "Please verify your email before completing the order"
	msgStoreRequired     = "Please choose a selling point"
	msgCaptchaWrong      = "Wrong answer, please try the new challenge"
	msgQuantityExceeds   = "A basket item's quantity exceeds what is available at the chosen selling point"
	msgOrderFailed       = "Could not submit the order"
	msgSellingPointField = "A selling point is required"
)

// BasketLine joins a basket entry with its product projection; the screens
// resolve products before handing the basket to checkout.
type BasketLine struct {
	Product  models.Product
	Quantity int
}

// SubmitResult is everything the checkout form needs to render the outcome:
// the resulting state, inline field errors, or a blocking alert.
type SubmitResult struct {
	State       CheckoutState
	FieldErrors map[string]string
	Alert       string
}

type guard struct {
	name    string
	passes  func() bool
	action  Remediation
	message string
}

// CheckoutService drives the order flow: entry guards, field validation,
// captcha, availability re-check, payload assembly and submission.
type CheckoutService struct {
	client    api.Client
	basket    *BasketService
	points    *SellingPointService
	users     *UserService
	cfg       config.Checkout
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
	captcha   *Captcha

	mu      sync.Mutex
	state   CheckoutState
	asGuest bool
}

func NewCheckoutService(client api.Client, basket *BasketService, points *SellingPointService, users *UserService, cfg config.Checkout) *CheckoutService {
	return &CheckoutService{
		client:    client,
		basket:    basket,
		points:    points,
		users:     users,
		cfg:       cfg,
		validate:  validator.New(),
		sanitizer: bluemonday.StrictPolicy(),
		captcha:   NewCaptcha(rand.New(rand.NewSource(time.Now().UnixNano()))),
		state:     StateIdle,
	}
}

func (s *CheckoutService) State() CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Captcha exposes the current challenge for the form to render when the
// variant requires it.
func (s *CheckoutService) Captcha() *Captcha {
	return s.captcha
}

// guards is the ordered entry pipeline. Each unmet guard routes the user to
// its remediation screen instead of opening the form.
func (s *CheckoutService) guards(asGuest bool) []guard {
	return []guard{
		{
			name:    "basket not empty",
			passes:  func() bool { return s.basket.TotalItems() > 0 },
			action:  RemediationBasket,
			message: msgBasketEmpty,
		},
		{
			name: "authenticated or guest",
			passes: func() bool {
				return s.users.IsAuthenticated() || (asGuest && s.cfg.AllowGuest)
			},
			action:  RemediationLogin,
			message: msgLoginRequired,
		},
		{
			name:    "selling point selected",
			passes:  func() bool { return s.points.Selected() != nil },
			action:  RemediationStorePicker,
			message: msgStoreRequired,
		},
		{
			name: "email verified",
			passes: func() bool {
				if asGuest && s.cfg.AllowGuest {
					return true
				}

				user := s.users.Current()

				return user != nil && user.EmailVerified
			},
			action:  RemediationVerifyEmail,
			message: msgVerifyRequired,
		},
	}
}

// Open moves Idle -> FormOpen when every entry guard passes; otherwise it
// returns the remediation for the first unmet guard and stays Idle.
func (s *CheckoutService) Open(asGuest bool) (Remediation, string) {

	for _, g := range s.guards(asGuest) {
		if !g.passes() {
			slog.Info("Checkout entry blocked", slog.String("guard", g.name))

			return g.action, g.message
		}
	}

	s.mu.Lock()
	s.state = StateFormOpen
	s.asGuest = asGuest
	s.mu.Unlock()

	return RemediationNone, ""
}

// Close returns the flow to Idle from any state.
func (s *CheckoutService) Close() {
	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
}

func (s *CheckoutService) validateFields(customer *models.CustomerInfo) map[string]string {

	fieldErrors := map[string]string{}

	if err := s.validate.Struct(customer); err != nil {
		fieldErrors = fieldErrorMap(err)
	}

	if s.points.Selected() == nil {
		fieldErrors["sellingPoint"] = msgSellingPointField
	}

	return fieldErrors
}

// Submit runs the submit-time pipeline: field validation, captcha,
// availability re-check, then the order POST. Validation and availability
// failures never reach the network; a failed POST leaves the basket intact
// for retry.
func (s *CheckoutService) Submit(ctx context.Context, customer models.CustomerInfo, captchaAnswer string, lines []BasketLine) SubmitResult {

	trimmed := models.CustomerInfo{
		Name:      s.sanitizer.Sanitize(strings.TrimSpace(customer.Name)),
		Email:     strings.TrimSpace(customer.Email),
		Telephone: s.sanitizer.Sanitize(strings.TrimSpace(customer.Telephone)),
		Address:   s.sanitizer.Sanitize(strings.TrimSpace(customer.Address)),
	}

	if fieldErrors := s.validateFields(&trimmed); len(fieldErrors) > 0 {
		s.setState(StateFormOpen)

		return SubmitResult{State: StateFormOpen, FieldErrors: fieldErrors}
	}

	if s.cfg.CaptchaRequired && !s.captcha.Verify(captchaAnswer) {
		s.setState(StateFormOpen)

		return SubmitResult{
			State:       StateFormOpen,
			FieldErrors: map[string]string{"captcha": msgCaptchaWrong},
		}
	}

	selected := s.points.Selected()

	for _, line := range lines {
		available := availability.ForSellingPoint(&line.Product, selected.ID)
		if available != nil && line.Quantity > *available {
			s.setState(StateFormOpen)

			return SubmitResult{State: StateFormOpen, Alert: msgQuantityExceeds}
		}
	}

	s.setState(StateSubmitting)

	order := s.assembleOrder(trimmed, selected.ID, lines)

	if err := s.client.SubmitOrder(ctx, order); err != nil {
		slog.Warn("Order submission failed",
			slog.String("reference", order.Reference),
			slog.String("error", err.Error()))

		s.setState(StateFailure)
		defer s.setState(StateFormOpen)

		return SubmitResult{State: StateFailure, Alert: messageFromAPIError(err, msgOrderFailed)}
	}

	s.basket.Clear()
	s.setState(StateSuccess)

	slog.Info("Order submitted",
		slog.String("reference", order.Reference),
		slog.Int("items", order.Summary.TotalItems))

	return SubmitResult{State: StateSuccess}
}

func (s *CheckoutService) assembleOrder(customer models.CustomerInfo, sellingPointID string, lines []BasketLine) *models.CheckoutOrder {

	order := &models.CheckoutOrder{
		Reference:    uuid.NewString(),
		SellingPoint: sellingPointID,
		Customer:     customer,
		Timestamp:    time.Now().UTC(),
	}

	for _, line := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Brand:       line.Product.Brand,
			BrandID:     line.Product.BrandID,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
			Total:       line.Product.Price * float64(line.Quantity),
			Image:       line.Product.Image,
		})

		order.Summary.TotalItems += line.Quantity
		order.Summary.TotalPrice += line.Product.Price * float64(line.Quantity)
	}

	return order
}

func (s *CheckoutService) setState(state CheckoutState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
