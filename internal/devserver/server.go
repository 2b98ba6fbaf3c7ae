package devserver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"eatorbit-client/internal/domain"
)

// Server is a local stand-in for the marketplace backend, faithful to the
// contract the client consumes so the CLI can run end to end without the real
// deployment.
type Server struct {
	store  Store
	svc    *Service
	secret string
	log    *slog.Logger
}

func New(store Store, jwtSecret string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{store: store, svc: NewService(store), secret: jwtSecret, log: log}
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/api/auth/login", s.handleLogin)
	r.POST("/api/auth/register", s.handleRegister)
	r.GET("/api/outlets", s.handleOutlets)
	r.GET("/api/outlets/:id/menu", s.handleMenu)
	r.GET("/api/order/track/:token", s.handleTrack)

	customer := r.Group("/api", s.auth(domain.RoleCustomer))
	customer.GET("/cart", s.handleGetCart)
	customer.POST("/cart/add", s.handleAddToCart)
	customer.DELETE("/cart/item/:id", s.handleRemoveCartItem)
	customer.POST("/order/place", s.handlePlaceOrder)
	customer.GET("/customer/orders", s.handleMyOrders)

	owner := r.Group("/api/owner", s.auth(domain.RoleOwner))
	owner.GET("/outlets", s.handleOwnerOutlets)
	owner.POST("/outlets", s.handleCreateOutlet)
	owner.PUT("/outlets/:id", s.handleUpdateOutlet)
	owner.GET("/foods", s.handleOwnerFoods)
	owner.POST("/foods", s.handleAddFood)
	owner.PUT("/foods/:id", s.handleUpdateFood)
	owner.DELETE("/foods/:id", s.handleDeleteFood)
	owner.GET("/orders", s.handleOwnerOrders)
	owner.PUT("/orders/:id/status", s.handleUpdateStatus)
	owner.GET("/upi-qr", s.handleGetUpiQR)
	owner.POST("/upi-qr", s.handleSetUpiQR)

	admin := r.Group("/api/admin", s.auth(domain.RoleAdmin))
	admin.GET("/users", s.handleUsers)
	admin.GET("/pending-vendors", s.handlePendingVendors)
	admin.POST("/vendors/:id/approve", s.handleApproveVendor)
	admin.POST("/vendors/:id/reject", s.handleRejectVendor)
	admin.GET("/outlets", s.handleAdminOutlets)
	admin.GET("/orders", s.handleAdminOrders)
	admin.DELETE("/users/:id", s.handleDeleteUser)

	return r
}

// auth verifies the bearer token and requires one of the given roles.
func (s *Server) auth(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}
		parsed, err := jwt.Parse(strings.TrimPrefix(h, "Bearer "), func(t *jwt.Token) (any, error) {
			return []byte(s.secret), nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		uid, _ := claims["user_id"].(float64)
		u, ok := s.store.User(int64(uid))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unknown user"})
			return
		}
		allowed := false
		for _, r := range roles {
			if u.Role == r {
				allowed = true
				break
			}
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
			return
		}
		c.Set("user", u)
		c.Next()
	}
}

func currentUser(c *gin.Context) *User {
	u, _ := c.MustGet("user").(*User)
	return u
}

func (s *Server) fail(c *gin.Context, err error) {
	var nf ErrNotFound
	var br ErrBadRequest
	var cf ErrConflict
	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.As(err, &br):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.As(err, &cf):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		s.log.Error("handler error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	u, ok := s.store.UserByEmail(req.Email)
	if !ok || u.PasswordHash != hashPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}
	if u.Status == domain.UserPending {
		c.JSON(http.StatusForbidden, gin.H{"message": "vendor approval pending"})
		return
	}
	claims := jwt.MapClaims{
		"user_id": u.UserID,
		"role":    string(u.Role),
		"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":  signed,
		"userId": u.UserID,
		"name":   u.Name,
		"email":  u.Email,
		"role":   u.Role,
	})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password required"})
		return
	}
	if _, exists := s.store.UserByEmail(req.Email); exists {
		c.JSON(http.StatusConflict, gin.H{"message": "email already registered"})
		return
	}
	role := req.Role
	if role != domain.RoleOwner {
		role = domain.RoleCustomer
	}
	status := domain.UserActive
	if role == domain.RoleOwner {
		status = domain.UserPending
	}
	u := &User{
		User: domain.User{
			UserID:    s.store.NextID("user"),
			Name:      req.Name,
			Email:     req.Email,
			Role:      role,
			Status:    status,
			CreatedAt: time.Now().UTC(),
		},
		PasswordHash: hashPassword(req.Password),
	}
	if err := s.store.PutUser(u); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u.User)
}

func (s *Server) handleOutlets(c *gin.Context) {
	all := s.store.ListOutlets()
	out := make([]domain.Outlet, 0, len(all))
	for _, o := range all {
		if o.Approved {
			out = append(out, *o)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleMenu(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid outlet id"})
		return
	}
	if _, ok := s.store.Outlet(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "outlet not found"})
		return
	}
	foods := s.store.ListFoods(id)
	out := make([]domain.FoodItem, 0, len(foods))
	for _, f := range foods {
		out = append(out, *f)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleTrack(c *gin.Context) {
	o, err := s.svc.TrackOrder(c.Param("token"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) handleGetCart(c *gin.Context) {
	cart, err := s.svc.CartDTO(currentUser(c).UserID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

type addToCartRequest struct {
	FoodItemID int64 `json:"foodItemId"`
	Quantity   int   `json:"quantity"`
}

func (s *Server) handleAddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	cart, err := s.svc.AddToCart(currentUser(c).UserID, req.FoodItemID, req.Quantity)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (s *Server) handleRemoveCartItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid cart item id"})
		return
	}
	cart, err := s.svc.RemoveCartItem(currentUser(c).UserID, id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

type placeOrderRequest struct {
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
}

func (s *Server) handlePlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	o, err := s.svc.PlaceOrder(currentUser(c).UserID, req.PaymentMethod)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) handleMyOrders(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.OrdersByCustomer(currentUser(c).UserID))
}

func hashPassword(pw string) string {
	sum := sha256.Sum256([]byte(pw))
	return hex.EncodeToString(sum[:])
}
