// FILE: internal/service/payment_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"raw-ai-be/internal/dto"
	"raw-ai-be/internal/entity"
	"raw-ai-be/internal/pkg/apperror"
	"raw-ai-be/internal/pkg/logger"
	"raw-ai-be/internal/pkg/mailer"
	"raw-ai-be/internal/repository/specification"
	"raw-ai-be/internal/repository/unitofwork"
	"raw-ai-be/pkg/events"
	"raw-ai-be/pkg/gateway/razorpay"

	"github.com/google/uuid"
)

// PaymentGateway is the order half of the checkout handshake.
type PaymentGateway interface {
	KeyId() string
	CreateOrder(ctx context.Context, in razorpay.OrderRequest) (*razorpay.Order, error)
}

type IPaymentService interface {
	CreateOrder(ctx context.Context, auth entity.AuthContext, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)

	// PromoteOrder applies a completed order's plan to its owner. Safe to call repeatedly.
	PromoteOrder(ctx context.Context, gatewayOrderId string) (*dto.PromoteOrderResponse, error)

	GetOrderHistory(ctx context.Context, userId uuid.UUID) ([]*dto.OrderHistoryItem, error)

	OrderClaimer
}

// OrderClaimer promotes completed orders that were paid for before the
// buyer's profile existed.
type OrderClaimer interface {
	ClaimOrders(ctx context.Context, profile *entity.Profile) (int, error)
}

const orderHistoryLimit = 50

var (
	errOrderNotFound   = errors.New("order not found")
	errProfileNotFound = errors.New("profile not found")
)

type paymentService struct {
	uowFactory  unitofwork.RepositoryFactory
	gateway     PaymentGateway
	keySecret   string
	retry       IPublisherService
	publisher   events.Publisher
	mailer      mailer.IEmailService
	logger      logger.ILogger
	auditLogger logger.ILogger
	now         func() time.Time
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	gateway PaymentGateway,
	keySecret string,
	retry IPublisherService,
	publisher events.Publisher,
	mailer mailer.IEmailService,
	logger logger.ILogger,
	auditLogger logger.ILogger,
) IPaymentService {
	return &paymentService{
		uowFactory:  uowFactory,
		gateway:     gateway,
		keySecret:   keySecret,
		retry:       retry,
		publisher:   publisher,
		mailer:      mailer,
		logger:      logger,
		auditLogger: auditLogger,
		now:         time.Now,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, auth entity.AuthContext, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if s.gateway == nil || s.gateway.KeyId() == "" {
		return nil, &apperror.ConfigurationError{Missing: "RAZORPAY_KEY_ID"}
	}
	if s.keySecret == "" {
		return nil, &apperror.ConfigurationError{Missing: "RAZORPAY_KEY_SECRET"}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if req.Plan == "" || email == "" {
		return nil, apperror.NewValidation("Missing plan or email")
	}
	plan, ok := entity.ParsePlan(req.Plan)
	if !ok || !plan.IsPaid() {
		return nil, apperror.NewValidation("Invalid plan")
	}
	amount, _ := entity.PriceFor(plan)

	// A verified token wins over whatever the body claims.
	userId := req.UserId
	if !auth.IsAnonymous() {
		userId = auth.UserId
	}

	notes := map[string]string{"plan": string(plan), "email": email}
	if userId != nil {
		notes["user_id"] = userId.String()
	}

	gwOrder, err := s.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   amount,
		Currency: entity.PlanCurrency,
		Receipt:  fmt.Sprintf("rcpt_%d", s.now().UnixNano()),
		Notes:    notes,
	})
	if err != nil {
		s.logger.Error("PAYMENT", "Gateway order creation failed", map[string]interface{}{
			"plan":  string(plan),
			"email": email,
			"error": err.Error(),
		})
		return nil, &apperror.GatewayError{Op: "create order", Err: err}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if userId == nil {
		if owner, err := uow.ProfileRepository().FindOne(ctx, specification.ByEmail{Email: email}); err == nil && owner != nil {
			userId = &owner.Id
		}
	}

	orderNotes := make(map[string]interface{}, len(notes))
	for k, v := range notes {
		orderNotes[k] = v
	}
	order := &entity.SubscriptionOrder{
		UserId:         userId,
		UserEmail:      email,
		Plan:           plan,
		GatewayOrderId: gwOrder.Id,
		Amount:         amount,
		Currency:       entity.PlanCurrency,
		Status:         entity.OrderStatusPending,
		Notes:          orderNotes,
	}
	if err := uow.OrderRepository().Create(ctx, order); err != nil {
		// The gateway order exists; the client can still pay. Bookkeeping loss is logged.
		s.logger.Error("PAYMENT", "Failed to persist pending order", map[string]interface{}{
			"order_id": gwOrder.Id,
			"error":    apperror.Persistence("save order", err).Error(),
		})
	} else {
		s.publish(ctx, events.OrderCreated, map[string]interface{}{
			"order_id": gwOrder.Id,
			"plan":     string(plan),
			"email":    email,
			"amount":   amount,
		})
	}

	s.logger.Info("PAYMENT", "Order created", map[string]interface{}{
		"order_id": gwOrder.Id,
		"plan":     string(plan),
		"amount":   amount,
		"linked":   userId != nil,
	})

	return &dto.CreateOrderResponse{
		OrderId:  gwOrder.Id,
		Amount:   amount,
		Currency: entity.PlanCurrency,
		KeyId:    s.gateway.KeyId(),
	}, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	if req.OrderId == "" || req.PaymentId == "" || req.Signature == "" {
		return nil, apperror.NewValidation("Missing payment verification fields")
	}
	if s.keySecret == "" {
		return nil, &apperror.ConfigurationError{Missing: "RAZORPAY_KEY_SECRET"}
	}

	if !razorpay.VerifyPaymentSignature(s.keySecret, req.OrderId, req.PaymentId, req.Signature) {
		s.logger.Warn("PAYMENT", "Payment signature mismatch", map[string]interface{}{
			"order_id":   req.OrderId,
			"payment_id": req.PaymentId,
		})
		return nil, &apperror.VerificationError{Message: "Invalid payment signature"}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	order, err := uow.OrderRepository().FindOne(ctx, specification.ByGatewayOrderID{OrderID: req.OrderId})
	if err != nil {
		return nil, apperror.Persistence("load order", err)
	}
	if order == nil {
		return nil, apperror.Persistence("complete order", errOrderNotFound)
	}

	// PENDING -> COMPLETED
	completed, err := uow.OrderRepository().MarkCompleted(ctx, order.Id, req.PaymentId, req.Signature)
	if err != nil {
		return nil, apperror.Persistence("complete order", err)
	}
	if completed {
		order.Status = entity.OrderStatusCompleted
		order.GatewayPaymentId = &req.PaymentId
		order.GatewaySignature = &req.Signature
		s.auditLogger.Info("PAYMENT", "Order completed", map[string]interface{}{
			"order_id":   order.GatewayOrderId,
			"payment_id": req.PaymentId,
			"plan":       string(order.Plan),
		})
	} else {
		s.logger.Info("PAYMENT", "Verification replayed for completed order", map[string]interface{}{
			"order_id":   order.GatewayOrderId,
			"payment_id": req.PaymentId,
		})
		order, err = uow.OrderRepository().FindOne(ctx, specification.ByID{ID: order.Id})
		if err != nil {
			return nil, apperror.Persistence("reload order", err)
		}
		if order == nil {
			return nil, apperror.Persistence("reload order", errOrderNotFound)
		}
	}

	// COMPLETED -> PROMOTED. Failure here does not fail the payment.
	if _, err := s.promote(ctx, order); err != nil {
		s.logger.Error("PROMOTION", "Plan promotion failed, queued for retry", map[string]interface{}{
			"order_id": order.GatewayOrderId,
			"error":    err.Error(),
		})
		if s.retry != nil {
			if qerr := s.retry.EnqueuePromotionRetry(ctx, order.GatewayOrderId, 1); qerr != nil {
				s.logger.Error("PROMOTION", "Failed to enqueue promotion retry", map[string]interface{}{
					"order_id": order.GatewayOrderId,
					"error":    qerr.Error(),
				})
			}
		}
	}

	return &dto.VerifyPaymentResponse{
		Success: true,
		Message: "Payment verified successfully",
		Plan:    string(order.Plan),
	}, nil
}

func (s *paymentService) PromoteOrder(ctx context.Context, gatewayOrderId string) (*dto.PromoteOrderResponse, error) {
	if gatewayOrderId == "" {
		return nil, apperror.NewValidation("order id is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	order, err := uow.OrderRepository().FindOne(ctx, specification.ByGatewayOrderID{OrderID: gatewayOrderId})
	if err != nil {
		return nil, apperror.Persistence("load order", err)
	}
	if order == nil {
		return nil, &apperror.NotFoundError{Resource: "order"}
	}
	if !order.IsCompleted() {
		return nil, apperror.NewValidation("order %s is not paid", gatewayOrderId)
	}

	promoted, err := s.promote(ctx, order)
	if err != nil {
		return nil, err
	}
	return &dto.PromoteOrderResponse{
		OrderId:  order.GatewayOrderId,
		Plan:     string(order.Plan),
		Promoted: promoted,
		At:       order.ProfilePromotedAt,
	}, nil
}

func (s *paymentService) GetOrderHistory(ctx context.Context, userId uuid.UUID) ([]*dto.OrderHistoryItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	orders, err := uow.OrderRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByOrderStatus{Status: entity.OrderStatusCompleted},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: orderHistoryLimit},
	)
	if err != nil {
		return nil, apperror.Persistence("list orders", err)
	}

	items := make([]*dto.OrderHistoryItem, 0, len(orders))
	for _, o := range orders {
		item := &dto.OrderHistoryItem{
			OrderId:    o.GatewayOrderId,
			Plan:       string(o.Plan),
			Amount:     o.Amount,
			Currency:   o.Currency,
			Status:     string(o.Status),
			PromotedAt: o.ProfilePromotedAt,
			CreatedAt:  o.CreatedAt,
		}
		if o.GatewayPaymentId != nil {
			item.PaymentId = *o.GatewayPaymentId
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *paymentService) ClaimOrders(ctx context.Context, profile *entity.Profile) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	orders, err := uow.OrderRepository().FindAll(ctx,
		specification.UnlinkedByEmail{Email: profile.Email},
		specification.Unpromoted{},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return 0, apperror.Persistence("find unclaimed orders", err)
	}

	claimed := 0
	for _, order := range orders {
		promoted, err := s.promote(ctx, order)
		if err != nil {
			return claimed, err
		}
		if promoted {
			claimed++
		}
	}
	return claimed, nil
}

// promote moves a completed order to PROMOTED. It returns false when there was
// nothing to do: already promoted by this or another caller, or an anonymous
// order whose email matches no profile yet.
func (s *paymentService) promote(ctx context.Context, order *entity.SubscriptionOrder) (bool, error) {
	if order.IsPromoted() {
		return false, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, apperror.Persistence("begin promotion", err)
	}
	defer uow.Rollback()

	// Claiming the order first keeps a concurrent promoter from repeating side effects.
	at := s.now()
	claimed, err := uow.OrderRepository().MarkPromoted(ctx, order.Id, at)
	if err != nil {
		return false, apperror.Persistence("mark promoted", err)
	}
	if !claimed {
		return false, nil
	}

	ownerId := order.UserId
	if ownerId == nil {
		owner, err := uow.ProfileRepository().FindOne(ctx, specification.ByEmail{Email: order.UserEmail})
		if err != nil {
			return false, apperror.Persistence("find order owner", err)
		}
		if owner == nil {
			s.logger.Warn("PROMOTION", "No profile for order email, promotion deferred", map[string]interface{}{
				"order_id": order.GatewayOrderId,
			})
			return false, nil
		}
		if _, err := uow.OrderRepository().AssignOwner(ctx, order.Id, owner.Id); err != nil {
			return false, apperror.Persistence("link order owner", err)
		}
		ownerId = &owner.Id
	}

	// A token user may pay before ever calling the profile endpoint.
	if _, err := uow.ProfileRepository().CreateIfAbsent(ctx, &entity.Profile{
		Id:             *ownerId,
		Email:          strings.ToLower(strings.TrimSpace(order.UserEmail)),
		SubscribedPlan: entity.PlanFree,
	}); err != nil {
		return false, apperror.Persistence("provision profile", err)
	}

	changed, err := uow.ProfileRepository().UpdatePlan(ctx, *ownerId, order.Plan)
	if err != nil {
		return false, apperror.Persistence("update plan", err)
	}
	if !changed {
		return false, apperror.Persistence("update plan", errProfileNotFound)
	}

	if err := uow.Commit(); err != nil {
		return false, apperror.Persistence("commit promotion", err)
	}
	order.UserId = ownerId
	order.ProfilePromotedAt = &at

	s.auditLogger.Info("PROMOTION", "Plan promoted", map[string]interface{}{
		"order_id": order.GatewayOrderId,
		"user_id":  order.UserId.String(),
		"plan":     string(order.Plan),
	})
	s.logger.Info("PROMOTION", "Plan promoted", map[string]interface{}{
		"order_id": order.GatewayOrderId,
		"plan":     string(order.Plan),
	})

	s.publish(ctx, events.PlanUpgraded, map[string]interface{}{
		"user_id":  order.UserId.String(),
		"plan":     string(order.Plan),
		"order_id": order.GatewayOrderId,
	})
	s.sendReceipt(order)
	return true, nil
}

func (s *paymentService) sendReceipt(order *entity.SubscriptionOrder) {
	if s.mailer == nil {
		return
	}
	receipt := mailer.UpgradeReceipt{
		OrderId:  order.GatewayOrderId,
		Plan:     string(order.Plan),
		Amount:   order.Amount,
		Currency: order.Currency,
	}
	to := order.UserEmail
	go func() {
		if err := s.mailer.SendUpgradeReceipt(to, receipt); err != nil {
			s.logger.Warn("PAYMENT", "Failed to send upgrade receipt", map[string]interface{}{
				"order_id": receipt.OrderId,
				"error":    err.Error(),
			})
		}
	}()
}

func (s *paymentService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn("PAYMENT", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}
