package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yourorg/bank-gateway/internal/bank"
	"github.com/yourorg/bank-gateway/internal/bank/pec"
	"github.com/yourorg/bank-gateway/internal/bank/sep"
	"github.com/yourorg/bank-gateway/internal/gateway"
	"github.com/yourorg/bank-gateway/internal/lifecycle"
	"github.com/yourorg/bank-gateway/internal/lifecycle/circuitbreaker"
	"github.com/yourorg/bank-gateway/internal/monitor"
	"github.com/yourorg/bank-gateway/internal/policy"
	"github.com/yourorg/bank-gateway/internal/store"
	"github.com/yourorg/bank-gateway/internal/transport"
)

type server struct {
	controller *lifecycle.Controller
	contract   *monitor.ContractMonitor
}

type createPaymentRequest struct {
	Bank         string `json:"bank"`
	Amount       int64  `json:"amount"`
	CallbackURL  string `json:"callbackUrl"`
	MobileNumber string `json:"mobileNumber"`
}

func (s *server) createPayment(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return
	}

	valid, validationErrors, err := s.contract.Validate(body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request validation failed: " + err.Error()})
		return
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": monitor.FormatErrors(validationErrors)})
		return
	}

	var req createPaymentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	rec, err := s.controller.PreparePay(ctx, gateway.BankType(req.Bank), req.Amount, req.CallbackURL, req.MobileNumber)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	descriptor, err := s.controller.Pay(ctx, rec.TrackingCode)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error(), "trackingCode": rec.TrackingCode})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trackingCode": rec.TrackingCode, "redirect": descriptor})
}

func (s *server) handleCallback(c *gin.Context) {
	trackingCode := c.Param("tracking")

	payload := map[string]string{}
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not parse callback payload"})
		return
	}
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}

	accepted, err := s.controller.PrepareVerifyFromGateway(c.Request.Context(), trackingCode, payload)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": accepted})
}

func (s *server) verifyPayment(c *gin.Context) {
	trackingCode := c.Param("tracking")

	status, err := s.controller.Verify(c.Request.Context(), trackingCode)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error(), "status": status})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (s *server) getPayment(c *gin.Context) {
	rec, err := s.controller.Get(c.Request.Context(), c.Param("tracking"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func statusForError(err error) int {
	var reject *gateway.BankGatewayRejectPaymentError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, gateway.ErrInvalidAmount), errors.Is(err, gateway.ErrPhaseViolation):
		return http.StatusBadRequest
	case errors.Is(err, gateway.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, gateway.ErrGatewayTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, gateway.ErrSettlementFailed):
		return http.StatusConflict
	case errors.As(err, &reject):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func setupRouter(s *server) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("bank-gateway"))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/payments", s.createPayment)
	router.POST("/payments/:tracking/callback", s.handleCallback)
	router.POST("/payments/:tracking/verify", s.verifyPayment)
	router.GET("/payments/:tracking", s.getPayment)
	return router
}

func buildRegistry(client *transport.Client) *bank.Registry {
	var adapters []bank.Adapter

	pecAdapter := pec.New(client)
	pecSettings := map[string]string{}
	for _, key := range []string{"TERMINAL_CODE", "USERNAME", "PASSWORD"} {
		if v := os.Getenv("PEC_" + key); v != "" {
			pecSettings[key] = v
		}
	}
	if err := pecAdapter.Configure(pecSettings); err != nil {
		log.Printf("pec adapter not registered: %v", err)
	} else {
		adapters = append(adapters, pecAdapter)
	}

	sepAdapter := sep.New(client)
	sepSettings := map[string]string{}
	for _, key := range []string{"MERCHANT_ID", "SECRET_KEY"} {
		if v := os.Getenv("SEP_" + key); v != "" {
			sepSettings[key] = v
		}
	}
	if err := sepAdapter.Configure(sepSettings); err != nil {
		log.Printf("sep adapter not registered: %v", err)
	} else {
		adapters = append(adapters, sepAdapter)
	}

	return bank.NewRegistry(adapters...)
}

func initTracing() func(context.Context) error {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		log.Fatalf("failed to create trace exporter: %v", err)
	}
	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	return provider.Shutdown
}

func main() {
	log.Println("Starting bank gateway server...")

	shutdown := initTracing()
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("trace provider shutdown: %v", err)
		}
	}()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "bank-gateway.db"
	}
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open database %s: %v", dbPath, err)
	}
	repo, err := store.NewGormRepository(db)
	if err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	registry := buildRegistry(transport.New())
	if len(registry.Banks()) == 0 {
		log.Fatal("no bank adapters configured; set PEC_* or SEP_* settings")
	}

	enforcer, err := policy.NewEnforcer(policy.DefaultSettleRules())
	if err != nil {
		log.Fatalf("failed to compile settle policy: %v", err)
	}

	controller := lifecycle.NewController(registry, repo, circuitbreaker.New(), enforcer)

	contract, err := monitor.NewContractMonitor()
	if err != nil {
		log.Fatalf("failed to compile request schema: %v", err)
	}

	router := setupRouter(&server{controller: controller, contract: contract})

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
