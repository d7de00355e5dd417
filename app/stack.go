package app

import (
	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/x/currency"
	"github.com/iov-one/barrel/x/staking"
	"github.com/iov-one/barrel/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Stack is the fully wired ledger application.
type Stack struct {
	*Application

	Router   *Router
	Currency *currency.Controller
	Staking  *staking.Controller
}

// NewStack wires the balance ledger, the stake ledger and the era
// scheduler on top of given store. metrics may be nil.
func NewStack(store Store, logger log.Logger, metrics *Metrics) *Stack {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	cur := currency.NewController()
	stk := staking.NewController(cur)

	router := NewRouter()
	currency.RegisterRoutes(router, cur)
	staking.RegisterRoutes(router, stk)

	handler := ChainDecorators(
		utils.NewLogging(),
		metrics,
		utils.NewRecovery(),
		utils.NewSavepoint(),
	).WithHandler(router)

	inits := barrel.Initializers{
		staking.ConfigInitializer{},
		currency.Initializer{Control: cur},
		staking.Initializer{Control: stk},
	}

	a := NewApplication(store).
		WithLogger(logger).
		WithMetrics(metrics).
		WithHandler(handler).
		WithInit(inits).
		WithTickers(staking.NewEraTicker(stk))

	return &Stack{
		Application: a,
		Router:      router,
		Currency:    cur,
		Staking:     stk,
	}
}
