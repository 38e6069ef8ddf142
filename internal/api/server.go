package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"CropCompass/internal/aggregator"
	"CropCompass/internal/decision"
	"CropCompass/internal/geo"
	"CropCompass/internal/recorder"
	"CropCompass/internal/scorer"
	"CropCompass/internal/simulation"

	"github.com/gin-gonic/gin"
)

// Server wires the core engines into HTTP handlers. Data-source failures
// never surface as 5xx: handlers return whatever degraded payload the core
// produced. Only caller contract violations become 400s.
type Server struct {
	Agg      *aggregator.Aggregator
	Ticker   *aggregator.Ticker
	Scorer   *scorer.Scorer
	Recorder recorder.Recorder
	Crops    []string // default ticker crops
}

// NewServer creates a Server.
func NewServer(agg *aggregator.Aggregator, ticker *aggregator.Ticker, sc *scorer.Scorer, rec recorder.Recorder, crops []string) *Server {
	return &Server{Agg: agg, Ticker: ticker, Scorer: sc, Recorder: rec, Crops: crops}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	v1.GET("/health", s.handleHealth)
	v1.GET("/price/:crop", s.handlePrice)
	v1.GET("/ticker", s.handleTicker)
	v1.GET("/markets/score", s.handleScoreMarkets)
	v1.GET("/decision", s.handleDecision)
	v1.GET("/simulate/:crop", s.handleSimulate)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now()})
}

func (s *Server) handlePrice(c *gin.Context) {
	crop := c.Param("crop")
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, s.Agg.FetchMarketPrice(c.Request.Context(), crop, limit))
}

func (s *Server) handleTicker(c *gin.Context) {
	crops := s.Crops
	if v := c.Query("crops"); v != "" {
		crops = splitList(v)
	}
	entries := s.Ticker.Fetch(c.Request.Context(), crops)
	c.JSON(http.StatusOK, gin.H{"entries": entries, "requested": len(crops)})
}

func (s *Server) handleScoreMarkets(c *gin.Context) {
	crop := c.Query("crop")
	if crop == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "crop query parameter is required"})
		return
	}
	quantity, err := parseFloat(c, "quantity")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lat, err := parseFloat(c, "lat")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lon, err := parseFloat(c, "lon")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var baseline *float64
	if v := c.Query("baseline"); v != "" {
		b, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "baseline must be a number"})
			return
		}
		baseline = &b
	}

	scores, err := s.Scorer.ScoreMarkets(c.Request.Context(), crop, quantity, geo.LatLon{Lat: lat, Lon: lon}, baseline)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"crop": crop, "markets": scores})
}

func (s *Server) handleDecision(c *gin.Context) {
	price, err := parseFloat(c, "price")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quantity, err := parseFloat(c, "quantity")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := decision.ProjectionParams{CurrentPrice: price, Quantity: quantity}
	if v := c.Query("cost_ratio"); v != "" {
		if params.CostRatio, err = strconv.ParseFloat(v, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cost_ratio must be a number"})
			return
		}
	}
	if v := c.Query("storage_rate"); v != "" {
		if params.StorageRate, err = strconv.ParseFloat(v, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "storage_rate must be a number"})
			return
		}
	}
	if v := c.Query("volatility"); v != "" {
		if params.Volatility, err = strconv.ParseFloat(v, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "volatility must be a number"})
			return
		}
	}

	result, err := decision.Project(params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if s.Recorder != nil {
		rec := &recorder.RecommendationRecord{
			CropID:         c.Query("crop"),
			CurrentPrice:   price,
			Quantity:       quantity,
			RiskLevel:      string(result.RiskLevel),
			Confidence:     result.Confidence,
			Recommendation: result.Recommendation,
			RecordedAt:     time.Now(),
		}
		if err := s.Recorder.RecordRecommendation(rec); err != nil {
			log.Printf("[ERROR] record recommendation: %v", err)
		}
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleSimulate(c *gin.Context) {
	crop := c.Param("crop")

	in := simulation.Inputs{LandSizeAcres: 1.0}
	var err error
	if in.RainfallPercent, err = parseFloatDefault(c, "rainfall_percent", 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.MarketPricePercent, err = parseFloatDefault(c, "market_price_percent", 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.LandSizeAcres, err = parseFloatDefault(c, "land_size", 1.0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.FertilizerCost, err = parseFloatDefault(c, "fertilizer_cost", 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.LabourCost, err = parseFloatDefault(c, "labour_cost", 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	basePrice := 0.0
	if agg := s.Agg.FetchMarketPrice(c.Request.Context(), crop, 0); agg.RecordCount > 0 {
		basePrice = agg.AvgModal
	}

	result, err := simulation.Run(basePrice, in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"crop_id": crop, "inputs": in, "simulation": result})
}

func parseFloat(c *gin.Context, name string) (float64, error) {
	v := c.Query(name)
	if v == "" {
		return 0, &paramError{name, "is required"}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &paramError{name, "must be a number"}
	}
	return f, nil
}

func parseFloatDefault(c *gin.Context, name string, def float64) (float64, error) {
	v := c.Query(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &paramError{name, "must be a number"}
	}
	return f, nil
}

type paramError struct {
	name, msg string
}

func (e *paramError) Error() string { return e.name + " " + e.msg }

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
