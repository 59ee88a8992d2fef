package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/contract"
	statex "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/state"
)

const (
	ToolLoad           = "load"
	ToolAnswerQuestion = "answerQuestion"
	ToolListMenu       = "listMenu"
	ToolAddItemToCart  = "addItemToCart"
	ToolViewCart       = "viewCart"
	ToolPlaceOrder     = "placeOrder"
)

type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

// Toolbox binds the six restaurant tools to one session and its collaborators.
type Toolbox struct {
	session  *statex.Session
	source   contractx.DataSource
	answerer contractx.Answerer
	orders   contractx.OrderLog
}

type Option func(*Toolbox)

// WithAnswerer enables answerQuestion.
func WithAnswerer(a contractx.Answerer) Option {
	return func(t *Toolbox) {
		if a != nil {
			t.answerer = a
		}
	}
}

// WithOrderLog hands every placed order to l.
func WithOrderLog(l contractx.OrderLog) Option {
	return func(t *Toolbox) {
		if l != nil {
			t.orders = l
		}
	}
}

func NewToolbox(session *statex.Session, source contractx.DataSource, opts ...Option) (*Toolbox, error) {
	if session == nil {
		return nil, errors.New("session state is required")
	}
	if source == nil {
		return nil, errors.New("data source is required")
	}
	t := &Toolbox{session: session, source: source}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t, nil
}

// Build returns the tool descriptors for a chat model together with their executor.
func (t *Toolbox) Build() ([]*schema.ToolInfo, Executor) {
	return Infos(), NewExecutor(t)
}

func NewExecutor(t *Toolbox) Executor {
	fallback := DefaultExecutor()
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		if err := ctx.Err(); err != nil {
			return contractx.ToolResult{}, err
		}

		var out contractx.ToolResult
		switch tool {
		case ToolLoad:
			out = t.load(ctx)
		case ToolAnswerQuestion:
			out = t.answerQuestion(ctx, args)
		case ToolListMenu:
			out = t.listMenu()
		case ToolAddItemToCart:
			out = t.addItemToCart(args)
		case ToolViewCart:
			out = t.viewCart()
		case ToolPlaceOrder:
			out = t.placeOrder(ctx, args)
		default:
			return fallback(ctx, tool, args)
		}

		log.Debug().
			Str("tool", tool).
			Bool("failed", out.Failed()).
			Str("error_kind", out.Error).
			Msg("tool executed")
		return out, nil
	}
}

func DefaultExecutor() Executor {
	return func(ctx context.Context, tool string, _ map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{
			Tool:  tool,
			Text:  fmt.Sprintf("Error: tool=%s is unavailable.", tool),
			Error: KindUnavailable,
		}, nil
	}
}

func (t *Toolbox) load(ctx context.Context) contractx.ToolResult {
	data, err := t.source.Fetch(ctx)
	if err != nil {
		return failure(ToolLoad, err)
	}
	summary, err := t.session.Load(data.CatalogRows, data.ScheduleRows, data.Info)
	if err != nil {
		return failure(ToolLoad, err)
	}

	log.Info().Int("items", summary.Items).Int("days", summary.Days).Msg("restaurant data loaded")
	return success(ToolLoad, fmt.Sprintf(
		"Success: Loaded %d menu items and %d schedule days. The system is ready.",
		summary.Items, summary.Days,
	))
}

func (t *Toolbox) answerQuestion(ctx context.Context, args map[string]any) contractx.ToolResult {
	info, err := t.session.Info()
	if err != nil {
		return failure(ToolAnswerQuestion, err)
	}
	question, err := requiredString(args, "question")
	if err != nil {
		return failure(ToolAnswerQuestion, err)
	}
	if t.answerer == nil {
		return contractx.ToolResult{
			Tool:  ToolAnswerQuestion,
			Text:  "Error: Question answering is not configured.",
			Error: KindUnavailable,
		}
	}

	// The session lock is not held here; the info text was copied above.
	answer, err := t.answerer.Answer(ctx, question, info)
	if err != nil {
		log.Warn().Err(err).Msg("answer question failed")
		return contractx.ToolResult{
			Tool:  ToolAnswerQuestion,
			Text:  "Error: Could not answer the question right now. Please try again.",
			Error: KindAnswerFailed,
		}
	}
	return success(ToolAnswerQuestion, answer)
}

func (t *Toolbox) listMenu() contractx.ToolResult {
	items, err := t.session.Menu()
	if err != nil {
		return failure(ToolListMenu, err)
	}
	return success(ToolListMenu, renderMenu(items))
}

func (t *Toolbox) addItemToCart(args map[string]any) contractx.ToolResult {
	if !t.session.IsReady() {
		return failure(ToolAddItemToCart, statex.ErrDataNotLoaded)
	}
	name, err := requiredString(args, "itemName")
	if err != nil {
		return failure(ToolAddItemToCart, err)
	}
	qty, err := quantityArg(args, "quantity")
	if err != nil {
		return failure(ToolAddItemToCart, err)
	}

	line, err := t.session.AddToCart(name, qty)
	if err != nil {
		return failure(ToolAddItemToCart, err)
	}
	return success(ToolAddItemToCart, fmt.Sprintf("Success: Added %d x %s to your cart.", qty, line.ItemName))
}

func (t *Toolbox) viewCart() contractx.ToolResult {
	return success(ToolViewCart, renderCart(t.session.ViewCart()))
}

func (t *Toolbox) placeOrder(ctx context.Context, args map[string]any) contractx.ToolResult {
	date, err := optionalString(args, "deliveryDate")
	if err != nil {
		return failure(ToolPlaceOrder, err)
	}
	at, err := optionalString(args, "deliveryTime")
	if err != nil {
		return failure(ToolPlaceOrder, err)
	}

	order, err := t.session.PlaceOrder(date, at)
	if err != nil {
		return failure(ToolPlaceOrder, err)
	}

	log.Info().
		Str("order_id", order.ID).
		Str("total", order.Total.StringFixed(2)).
		Int("lines", len(order.Lines)).
		Msg("order placed")

	if t.orders != nil {
		if err := t.orders.Append(ctx, order); err != nil {
			log.Warn().Err(err).Str("order_id", order.ID).Msg("order log append failed")
		}
	}
	return success(ToolPlaceOrder, renderOrder(order))
}

// Infos describes the tools for a tool-calling chat model.
func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name:        ToolLoad,
			Desc:        "Load the restaurant menu, opening schedule and information. Call this before anything else.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: ToolAnswerQuestion,
			Desc: "Answer a general question about the restaurant (location, policies, cuisine) from its information document.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"question": {Type: schema.String, Desc: "The customer's question", Required: true},
			}),
		},
		{
			Name:        ToolListMenu,
			Desc:        "List every menu item with its price.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: ToolAddItemToCart,
			Desc: "Add a menu item to the cart. The item name must match the menu exactly (case-insensitive).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"itemName": {Type: schema.String, Desc: "Exact menu item name", Required: true},
				"quantity": {Type: schema.Integer, Desc: "Positive number of units", Required: true},
			}),
		},
		{
			Name:        ToolViewCart,
			Desc:        "Show the cart contents and total price.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: ToolPlaceOrder,
			Desc: "Place the order in the cart for delivery at the given date and time.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"deliveryDate": {Type: schema.String, Desc: "Delivery date, YYYY-MM-DD", Required: true},
				"deliveryTime": {Type: schema.String, Desc: "Delivery time, 24-hour HH:MM", Required: true},
			}),
		},
	}
}
