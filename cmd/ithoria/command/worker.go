package command

import (
	"fmt"

	"github.com/pixil98/go-service/service"
	"github.com/pixil98/ithoria-client/internal/gateway"
	"github.com/pixil98/ithoria-client/internal/session"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Gateway stack
	correlator := gateway.NewCorrelator()
	transport := cfg.Gateway.BuildTransport(correlator)
	client, err := cfg.Gateway.BuildClient(correlator, transport)
	if err != nil {
		return nil, fmt.Errorf("creating gateway client: %w", err)
	}

	// Zone stack
	loader, err := cfg.Zones.BuildLoader()
	if err != nil {
		return nil, fmt.Errorf("creating content loader: %w", err)
	}
	registry := cfg.Zones.BuildRegistry(loader)
	catalog, err := cfg.Zones.BuildCatalog(registry)
	if err != nil {
		return nil, fmt.Errorf("creating zone catalog: %w", err)
	}

	// Session
	orch, err := cfg.Session.BuildOrchestrator(client, registry, catalog.Specs())
	if err != nil {
		return nil, fmt.Errorf("creating orchestrator: %w", err)
	}
	sess, err := cfg.Session.BuildSession(client, orch, cfg.Account,
		session.WithReadyGate(transport.WaitReady))
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	workers := service.WorkerList{
		"transport": transport,
		"catalog":   catalog,
		"session":   sess,
	}

	if ms := cfg.Metrics.BuildServer(); ms != nil {
		workers["metrics"] = ms
	}

	return workers, nil
}
