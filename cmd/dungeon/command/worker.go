package command

import (
	"fmt"

	"github.com/pixil98/go-dungeon/internal/driver"
	"github.com/pixil98/go-dungeon/internal/messaging"
	"github.com/pixil98/go-dungeon/internal/substrate"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	templates, err := cfg.Templates.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating template store: %w", err)
	}

	// Build the dungeon up front so a bad template fails startup
	engine, err := cfg.Dungeon.buildEngine(templates, substrate.NewHeadless(), &substrate.Observer{})
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	if err := engine.Generate(); err != nil {
		return nil, fmt.Errorf("generating dungeon: %w", err)
	}

	server, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	var opts []driver.DriverOpt
	if d := cfg.tickInterval(); d > 0 {
		opts = append(opts, driver.WithTickLength(d))
	}
	drv := driver.NewDriver([]driver.Ticker{
		messaging.NewStatsPublisher(server, engine),
	}, opts...)

	workers := service.WorkerList{
		"nats":   server,
		"router": messaging.NewRouter(server, engine),
		"driver": drv,
	}

	if cfg.Viewer.Enabled {
		v, err := cfg.Viewer.buildViewer(engine)
		if err != nil {
			return nil, fmt.Errorf("creating viewer: %w", err)
		}
		workers["viewer"] = v
	}

	return workers, nil
}
