package devserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eatorbit-client/internal/domain"
)

func (s *Server) handleOwnerOutlets(c *gin.Context) {
	owner := currentUser(c)
	var out []domain.Outlet
	for _, o := range s.store.ListOutlets() {
		if o.OwnerID == owner.UserID {
			out = append(out, *o)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateOutlet(c *gin.Context) {
	var o domain.Outlet
	if err := c.ShouldBindJSON(&o); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	o.OutletID = s.store.NextID("outlet")
	o.OwnerID = currentUser(c).UserID
	o.Approved = true
	if err := s.store.PutOutlet(&o); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (s *Server) handleUpdateOutlet(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid outlet id"})
		return
	}
	existing, ok := s.store.Outlet(id)
	if !ok || existing.OwnerID != currentUser(c).UserID {
		c.JSON(http.StatusNotFound, gin.H{"message": "outlet not found"})
		return
	}
	var o domain.Outlet
	if err := c.ShouldBindJSON(&o); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	existing.OutletName = o.OutletName
	existing.Location = o.Location
	if err := s.store.PutOutlet(existing); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, existing)
}

// ownedOutlet resolves the outletId query param and checks ownership.
func (s *Server) ownedOutlet(c *gin.Context) (*domain.Outlet, bool) {
	id, err := strconv.ParseInt(c.Query("outletId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "outletId required"})
		return nil, false
	}
	o, ok := s.store.Outlet(id)
	if !ok || o.OwnerID != currentUser(c).UserID {
		c.JSON(http.StatusNotFound, gin.H{"message": "outlet not found"})
		return nil, false
	}
	return o, true
}

func (s *Server) handleOwnerFoods(c *gin.Context) {
	o, ok := s.ownedOutlet(c)
	if !ok {
		return
	}
	foods := s.store.ListFoods(o.OutletID)
	out := make([]domain.FoodItem, 0, len(foods))
	for _, f := range foods {
		out = append(out, *f)
	}
	c.JSON(http.StatusOK, out)
}

type foodRequest struct {
	OutletID    int64   `json:"outletId"`
	FoodName    string  `json:"foodName"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
}

func (s *Server) handleAddFood(c *gin.Context) {
	var req foodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	o, ok := s.store.Outlet(req.OutletID)
	if !ok || o.OwnerID != currentUser(c).UserID {
		c.JSON(http.StatusNotFound, gin.H{"message": "outlet not found"})
		return
	}
	f := &domain.FoodItem{
		FoodID:      s.store.NextID("food"),
		FoodName:    req.FoodName,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Available:   req.Available,
		OutletID:    req.OutletID,
	}
	if err := s.store.PutFood(f); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) handleUpdateFood(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid food id"})
		return
	}
	f, ok := s.store.Food(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "food item not found"})
		return
	}
	o, ok := s.store.Outlet(f.OutletID)
	if !ok || o.OwnerID != currentUser(c).UserID {
		c.JSON(http.StatusNotFound, gin.H{"message": "food item not found"})
		return
	}
	var req foodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	f.FoodName = req.FoodName
	f.Description = req.Description
	f.Category = req.Category
	f.Price = req.Price
	f.Available = req.Available
	if err := s.store.PutFood(f); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) handleDeleteFood(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid food id"})
		return
	}
	f, ok := s.store.Food(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "food item not found"})
		return
	}
	o, ok := s.store.Outlet(f.OutletID)
	if !ok || o.OwnerID != currentUser(c).UserID {
		c.JSON(http.StatusNotFound, gin.H{"message": "food item not found"})
		return
	}
	if err := s.store.DeleteFood(id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleOwnerOrders(c *gin.Context) {
	o, ok := s.ownedOutlet(c)
	if !ok {
		return
	}
	recs := s.store.ListOrdersByOutlet(o.OutletID)
	out := make([]domain.Order, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Order)
	}
	c.JSON(http.StatusOK, out)
}

type statusUpdateRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
		return
	}
	rec, ok := s.store.Order(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	o, ok := s.store.Outlet(rec.OutletID)
	if !ok || o.OwnerID != currentUser(c).UserID {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	updated, err := s.svc.UpdateOrderStatus(id, req.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleGetUpiQR(c *gin.Context) {
	o, ok := s.ownedOutlet(c)
	if !ok {
		return
	}
	qr, ok := s.store.UpiQR(o.OutletID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "upi qr not configured"})
		return
	}
	c.JSON(http.StatusOK, qr)
}

func (s *Server) handleSetUpiQR(c *gin.Context) {
	var qr domain.UpiQR
	if err := c.ShouldBindJSON(&qr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	o, ok := s.store.Outlet(qr.OutletID)
	if !ok || o.OwnerID != currentUser(c).UserID {
		c.JSON(http.StatusNotFound, gin.H{"message": "outlet not found"})
		return
	}
	if err := s.store.PutUpiQR(&qr); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, qr)
}

func (s *Server) handleUsers(c *gin.Context) {
	users := s.store.ListUsers()
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.User)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handlePendingVendors(c *gin.Context) {
	var out []domain.User
	for _, u := range s.store.ListUsers() {
		if u.Role == domain.RoleOwner && u.Status == domain.UserPending {
			out = append(out, u.User)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) setVendorStatus(c *gin.Context, status domain.UserStatus, keep bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid vendor id"})
		return
	}
	u, ok := s.store.User(id)
	if !ok || u.Role != domain.RoleOwner {
		c.JSON(http.StatusNotFound, gin.H{"message": "vendor not found"})
		return
	}
	if !keep {
		if err := s.store.DeleteUser(id); err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, u.User)
		return
	}
	u.Status = status
	if err := s.store.PutUser(u); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u.User)
}

func (s *Server) handleApproveVendor(c *gin.Context) {
	s.setVendorStatus(c, domain.UserActive, true)
}

func (s *Server) handleRejectVendor(c *gin.Context) {
	s.setVendorStatus(c, "", false)
}

func (s *Server) handleAdminOutlets(c *gin.Context) {
	outlets := s.store.ListOutlets()
	out := make([]domain.Outlet, 0, len(outlets))
	for _, o := range outlets {
		out = append(out, *o)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleAdminOrders(c *gin.Context) {
	recs := s.store.ListOrders()
	out := make([]domain.Order, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Order)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
		return
	}
	if _, ok := s.store.User(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	if err := s.store.DeleteUser(id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
