package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	assistantx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/agents/assistant"
	contractx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/contract"
	llmx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/llm"
	loaderx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/loader"
	orderlogx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/orderlog"
	promptx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/prompt"
	statex "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/state"
	toolx "github.com/tanpawarit/Chative-Restaurant-Ordering/agent/tool"
	configx "github.com/tanpawarit/Chative-Restaurant-Ordering/pkg/config"
	_ "github.com/tanpawarit/Chative-Restaurant-Ordering/pkg/logger/autoload"
)

type AppConfig struct {
	Autoload     bool `envconfig:"AUTOLOAD" default:"false"`
	MaxToolSteps int  `envconfig:"MAX_TOOL_STEPS" default:"8"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("")
	dataCfg := configx.MustNew[loaderx.Config]("DATA")
	llmCfg := configx.MustNew[llmx.Config]("LLM")
	orderLogCfg := configx.MustNew[orderlogx.Config]("ORDER_LOG")

	source, err := loaderx.NewFileSource(*dataCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid data source config")
	}

	prompts := promptx.LoadPromptSet()
	answerer, err := llmx.NewAnswerer(ctx, *llmCfg, prompts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize answerer")
	}

	orders, err := orderlogx.Build(ctx, *orderLogCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize order log")
	}
	defer func() {
		if err := orders.Close(); err != nil {
			log.Warn().Err(err).Msg("close order log")
		}
	}()

	session := statex.NewSession()
	toolbox, err := toolx.NewToolbox(session, source,
		toolx.WithAnswerer(answerer),
		toolx.WithOrderLog(orders),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build toolbox")
	}

	modelCfg := llmCfg.OpenRouterFor(contractx.AgentTypeAssistant)
	chatModel, err := modelCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize assistant model")
	}
	assistant, err := assistantx.New(ctx, chatModel, prompts.Assistant, toolbox,
		assistantx.WithMaxSteps(appCfg.MaxToolSteps),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize assistant")
	}

	if appCfg.Autoload {
		_, execute := toolbox.Build()
		res, err := execute(ctx, toolx.ToolLoad, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("autoload failed")
		}
		fmt.Println(res.Text)
	}

	runREPL(ctx, assistant)
}

func runREPL(ctx context.Context, assistant *assistantx.Assistant) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Restaurant assistant ready. Type /quit to exit, /reset to start over.")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		text := strings.TrimSpace(scanner.Text())
		switch text {
		case "":
			continue
		case "/quit":
			return
		case "/reset":
			assistant.Reset()
			fmt.Println("Conversation cleared.")
			continue
		}

		reply, err := assistant.HandleMessage(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("handle message failed")
			fmt.Println("Sorry, something went wrong. Please try again.")
			continue
		}
		fmt.Println(reply)
	}
}
