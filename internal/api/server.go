// Package api exposes the shop over HTTP: action dispatch, the assist
// endpoint backed by the interpreter, ledger reads and a websocket snapshot
// stream for presentation clients.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"dukaan/internal/models"
	"dukaan/internal/store"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// Interpreter turns free text into an action record. nil disables the
// assist endpoint.
type Interpreter interface {
	Interpret(ctx context.Context, utterance string, catalog []models.InventoryItem) (models.ActionRecord, error)
}

// Server wires the store and interpreter into HTTP routes.
type Server struct {
	router      *gin.Engine
	store       *store.Store
	interpreter Interpreter
	secret      string
}

// NewServer builds the router. When secret is non-empty every /api route
// requires a valid bearer token signed with it.
func NewServer(st *store.Store, interp Interpreter, secret string) *Server {
	s := &Server{
		router:      gin.Default(),
		store:       st,
		interpreter: interp,
		secret:      secret,
	}
	s.setupRoutes()
	return s
}

// Router returns the underlying gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/ws", s.handleSnapshotStream)

	v1 := s.router.Group("/api/v1")
	if s.secret != "" {
		v1.Use(s.authMiddleware())
	}
	{
		v1.POST("/actions", s.DispatchAction)
		v1.POST("/assist", s.Assist)

		v1.GET("/snapshot", s.GetSnapshot)
		v1.GET("/inventory", s.GetInventory)
		v1.GET("/cart", s.GetCart)
		v1.GET("/sales", s.GetSales)
		v1.GET("/expenses", s.GetExpenses)

		v1.POST("/inventory", s.AddProduct)
		v1.POST("/inventory/:id/restock", s.QuickRestock)

		v1.POST("/cart", s.AddToCart)
		v1.DELETE("/cart/:name", s.RemoveFromCart)
		v1.POST("/checkout", s.Checkout)
	}
}

// authMiddleware validates a bearer token signed with the configured secret.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(s.secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// DispatchAction applies a raw action record. Whatever the payload looks
// like, the response is the (possibly unchanged) snapshot: reconciliation
// never fails, it at worst does nothing.
func (s *Server) DispatchAction(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record := models.ParseActionRecord(body)
	snapshot := s.store.Dispatch(record)
	c.JSON(http.StatusOK, snapshot)
}

// Assist interprets free text into an action and dispatches it.
func (s *Server) Assist(c *gin.Context) {
	if s.interpreter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no language model configured"})
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	catalog := s.store.Snapshot().Inventory
	record, err := s.interpreter.Interpret(c.Request.Context(), req.Text, catalog)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	snapshot := s.store.Dispatch(record)
	c.JSON(http.StatusOK, gin.H{"action": record, "snapshot": snapshot})
}

// Snapshot and ledger reads

func (s *Server) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) GetInventory(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot().Inventory)
}

func (s *Server) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot().Cart)
}

func (s *Server) GetSales(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot().Sales)
}

func (s *Server) GetExpenses(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Snapshot().Expenses)
}

// Direct shop operations

func (s *Server) AddProduct(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if item.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	item.ID = ""
	c.JSON(http.StatusCreated, s.store.AddProduct(item))
}

func (s *Server) QuickRestock(c *gin.Context) {
	id := c.Param("id")
	known := false
	for _, item := range s.store.Snapshot().Inventory {
		if item.ID == id {
			known = true
			break
		}
	}
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, s.store.QuickRestock(id))
}

func (s *Server) AddToCart(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Quantity int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.store.AddToCart(req.Name, req.Quantity))
}

func (s *Server) RemoveFromCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.RemoveFromCart(c.Param("name")))
}

func (s *Server) Checkout(c *gin.Context) {
	if len(s.store.Snapshot().Cart) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "cart is empty"})
		return
	}
	after := s.store.Checkout()
	if len(after.Sales) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "cart is empty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sale":     after.Sales[len(after.Sales)-1],
		"snapshot": after,
	})
}
