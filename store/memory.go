package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-shop/apperr"
	"go-shop/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore implements UserStore, AdminStore and OrderStore in process
// memory with the same uniqueness rules as the Mongo indexes. It backs
// STORE_DRIVER=memory and the handler tests.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[primitive.ObjectID]models.User
	admins map[primitive.ObjectID]models.Admin
	orders map[primitive.ObjectID]models.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[primitive.ObjectID]models.User),
		admins: make(map[primitive.ObjectID]models.Admin),
		orders: make(map[primitive.ObjectID]models.Order),
	}
}

var (
	_ UserStore  = (*MemoryStore)(nil)
	_ AdminStore = (*MemoryStore)(nil)
	_ OrderStore = (*MemoryStore)(nil)
)

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return apperr.ErrEmailTaken
		}
	}
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperr.ErrUserNotFound
	}
	return &user, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, apperr.ErrUserNotFound
}

func (s *MemoryStore) SetVerificationToken(ctx context.Context, id primitive.ObjectID, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return apperr.ErrUserNotFound
	}
	user.VerificationToken = token
	user.UpdatedAt = time.Now().UTC()
	s.users[id] = user
	return nil
}

func (s *MemoryStore) MarkVerified(ctx context.Context, id primitive.ObjectID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok || user.IsVerified {
		return false, nil
	}
	user.IsVerified = true
	user.VerificationToken = ""
	user.UpdatedAt = time.Now().UTC()
	s.users[id] = user
	return true, nil
}

func (s *MemoryStore) UpdateProfilePic(ctx context.Context, id primitive.ObjectID, url string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperr.ErrUserNotFound
	}
	user.ProfilePic = url
	user.UpdatedAt = time.Now().UTC()
	s.users[id] = user
	return &user, nil
}

func (s *MemoryStore) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.admins {
		if existing.Email == admin.Email {
			return apperr.ErrEmailTaken
		}
	}
	admin.ID = primitive.NewObjectID()
	admin.CreatedAt = time.Now().UTC()
	s.admins[admin.ID] = *admin
	return nil
}

func (s *MemoryStore) GetAdminByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	admin, ok := s.admins[id]
	if !ok {
		return nil, apperr.ErrAdminNotFound
	}
	return &admin, nil
}

func (s *MemoryStore) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, admin := range s.admins {
		if admin.Email == email {
			return &admin, nil
		}
	}
	return nil, apperr.ErrAdminNotFound
}

func (s *MemoryStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.orders {
		if existing.PaymentRef == order.PaymentRef {
			return apperr.ErrDuplicatePaymentRef
		}
	}
	now := time.Now().UTC()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	s.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (s *MemoryStore) GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, apperr.ErrOrderNotFound
	}
	order = cloneOrder(order)
	return &order, nil
}

func (s *MemoryStore) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.filterOrders(ctx, func(o models.Order) bool {
		return o.User != nil && *o.User == userID
	})
}

func (s *MemoryStore) FindOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	if filter.IsEmpty() {
		return nil, errEmptyFilter
	}
	return s.filterOrders(ctx, func(o models.Order) bool {
		return (filter.Email == "" || o.Email == filter.Email) &&
			(filter.PaymentRef == "" || o.PaymentRef == filter.PaymentRef)
	})
}

func (s *MemoryStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.filterOrders(ctx, func(models.Order) bool { return true })
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range orders {
		if orders[i].User == nil {
			continue
		}
		if user, ok := s.users[*orders[i].User]; ok {
			orders[i].Owner = &models.OrderOwner{
				ID:        user.ID,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Email:     user.Email,
			}
		}
	}
	return orders, nil
}

func (s *MemoryStore) filterOrders(ctx context.Context, keep func(models.Order) bool) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := []models.Order{}
	for _, order := range s.orders {
		if keep(order) {
			orders = append(orders, cloneOrder(order))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID.Hex() > orders[j].ID.Hex()
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *MemoryStore) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, apperr.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	s.orders[id] = order
	order = cloneOrder(order)
	return &order, nil
}

func cloneOrder(o models.Order) models.Order {
	o.Cart = append([]models.LineItem(nil), o.Cart...)
	if o.User != nil {
		id := *o.User
		o.User = &id
	}
	o.Owner = nil
	return o
}
