package rollover

import "go.uber.org/fx"

var Module = fx.Module("rollover",
	fx.Provide(NewEngine),
	fx.Provide(NewWorker),
	fx.Invoke(func(*Worker) {}),
)
