package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PriceResolutionsTotal counts tier price resolutions by outcome.
	PriceResolutionsTotal *prometheus.CounterVec
	// PriceIndexLookupsTotal counts price index lookups by cache result.
	PriceIndexLookupsTotal *prometheus.CounterVec
	// CartRevalidationsTotal counts cart line revalidation outcomes.
	CartRevalidationsTotal *prometheus.CounterVec
	// OfferLinesBuiltTotal counts offer line listings built for products.
	OfferLinesBuiltTotal prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PriceResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_resolutions_total",
			Help:      "Count of tier price resolutions by outcome.",
		}, []string{"result"})
		PriceIndexLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_index_lookups_total",
			Help:      "Count of price index lookups by cache result.",
		}, []string{"result"})
		CartRevalidationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_revalidations_total",
			Help:      "Count of cart line revalidation outcomes.",
		}, []string{"result"})
		OfferLinesBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_lines_built_total",
			Help:      "Number of customer group offer listings built.",
		})

		mustRegisterCollector(reg, PriceResolutionsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PriceResolutionsTotal = v
			}
		})
		mustRegisterCollector(reg, PriceIndexLookupsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PriceIndexLookupsTotal = v
			}
		})
		mustRegisterCollector(reg, CartRevalidationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartRevalidationsTotal = v
			}
		})
		mustRegisterCollector(reg, OfferLinesBuiltTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				OfferLinesBuiltTotal = v
			}
		})
	})
}

// ObservePriceResolution records a tier price resolution outcome. Safe to call
// before metrics registration.
func ObservePriceResolution(result string) {
	if PriceResolutionsTotal != nil {
		PriceResolutionsTotal.WithLabelValues(result).Inc()
	}
}

// ObservePriceIndexLookup records a price index lookup cache result.
func ObservePriceIndexLookup(result string) {
	if PriceIndexLookupsTotal != nil {
		PriceIndexLookupsTotal.WithLabelValues(result).Inc()
	}
}

// ObserveCartRevalidation records a cart line revalidation outcome.
func ObserveCartRevalidation(result string) {
	if CartRevalidationsTotal != nil {
		CartRevalidationsTotal.WithLabelValues(result).Inc()
	}
}

// ObserveOfferLinesBuilt records one built offer listing.
func ObserveOfferLinesBuilt() {
	if OfferLinesBuiltTotal != nil {
		OfferLinesBuiltTotal.Inc()
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, replace func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if ok := asAlreadyRegistered(err, &already); ok {
			replace(already.ExistingCollector)
			return
		}
		panic(fmt.Sprintf("register collector: %v", err))
	}
}

func asAlreadyRegistered(err error, target *prometheus.AlreadyRegisteredError) bool {
	if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
		*target = are
		return true
	}
	return false
}
