// Package factory provides a small generic registry used to instantiate modules
// from configuration. Modules are defined by a type string and a map of raw
// settings. Factories decode the settings into typed structs and return the
// concrete implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[metrics.MetricsSink]()
//	reg.Register("prometheus", func(conf map[string]any) (metrics.MetricsSink, error) {
//	    var c struct{ Port string `json:"prometheus_port"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return metrics.NewPromSink(c.Port)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "prometheus", Conf: map[string]any{"prometheus_port": "9090"}})
package factory
