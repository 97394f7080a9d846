package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Storefront records cart and sign-in activity.
type Storefront struct {
	cartOps        *prometheus.CounterVec
	coupons        *prometheus.CounterVec
	signInEvents   *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// NewStorefront registers the storefront metrics on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_operations_total",
		Help: "Cart operations by kind.",
	}, []string{"operation"})
	coupons := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_coupon_applications_total",
		Help: "Coupon applications by result.",
	}, []string{"result"})
	signInEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_signin_events_total",
		Help: "Sign-in flow events.",
	}, []string{"event"})
	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_active_sessions",
		Help: "Browsing sessions currently held in memory.",
	})
	reg.MustRegister(cartOps, coupons, signInEvents, activeSessions)
	return &Storefront{
		cartOps:        cartOps,
		coupons:        coupons,
		signInEvents:   signInEvents,
		activeSessions: activeSessions,
	}
}

func (s *Storefront) CartOperation(op string) {
	if s == nil || s.cartOps == nil {
		return
	}
	s.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

func (s *Storefront) CouponApplied(ok bool) {
	if s == nil || s.coupons == nil {
		return
	}
	result := "rejected"
	if ok {
		result = "applied"
	}
	s.coupons.WithLabelValues(result).Inc()
}

func (s *Storefront) SignInEvent(event string) {
	if s == nil || s.signInEvents == nil {
		return
	}
	s.signInEvents.WithLabelValues(normalizeLabel(event)).Inc()
}

func (s *Storefront) SetActiveSessions(n int) {
	if s == nil || s.activeSessions == nil {
		return
	}
	s.activeSessions.Set(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
