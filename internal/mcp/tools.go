package mcp

import (
	"context"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/takashiro/qsgs/internal/game"
	"github.com/takashiro/qsgs/internal/log"
)

// activeSession is the singleton match (one per stdio process).
var activeSession *GameSession

// catalog holds the content registry, set by main before serving.
var catalog *game.Catalog

func SetCatalog(c *game.Catalog) {
	catalog = c
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), handleStartGame)
	s.AddTool(chooseTriggerOrderTool(), handleChooseTriggerOrder)
	s.AddTool(provideCardTool(), handleProvideCard)
	s.AddTool(pickCardTool(), handlePickCard)
	s.AddTool(playCardTool(), handlePlayCard)
	s.AddTool(arrangeCardsTool(), handleArrangeCards)
	s.AddTool(chooseOptionTool(), handleChooseOption)
	s.AddTool(chooseGeneralTool(), handleChooseGeneral)
	s.AddTool(getGameStateTool(), handleGetGameState)
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new match. You take seat 1; every other seat is a robot. "+
			"Returns the initial state and the first pending decision."),
		mcp.WithNumber("seats", mcp.Description("Total number of seats (default 2)")),
	)
}

func chooseTriggerOrderTool() mcp.Tool {
	return mcp.NewTool("choose_trigger_order",
		mcp.WithDescription("Pick which pending skill fires first. Use when the pending decision type is 'trigger_order'. "+
			"Pass -1 to decline when the decision is cancelable."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the options list, or -1 to decline")),
	)
}

func provideCardTool() mcp.Tool {
	return mcp.NewTool("provide_card",
		mcp.WithDescription("Answer a card request (e.g. play a Jink, discard down to your limit). "+
			"Use when the pending decision type is 'provide_card'. "+
			"Pass an empty string to decline an optional request."),
		mcp.WithString("card_ids", mcp.Required(), mcp.Description("Space-separated card ids, or empty to decline")),
		mcp.WithString("skill", mcp.Description("Name of a view-as skill converting the chosen cards")),
	)
}

func pickCardTool() mcp.Tool {
	return mcp.NewTool("pick_card",
		mcp.WithDescription("Pick one card from the candidates list. Use when the pending decision type is 'pick_card'."),
		mcp.WithNumber("card_id", mcp.Required(), mcp.Description("Id of the card to pick")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card, invoke a proactive skill, recast, or end the phase. "+
			"Use when the pending decision type is 'use_card' or 'activate'."),
		mcp.WithNumber("card_id", mcp.Description("Id of the card to use")),
		mcp.WithString("card_ids", mcp.Description("Space-separated card ids consumed by a skill")),
		mcp.WithString("skill", mcp.Description("Name of the skill to invoke")),
		mcp.WithString("to", mcp.Description("Space-separated target player ids")),
		mcp.WithBoolean("recast", mcp.Description("Recast the card instead of using it")),
		mcp.WithBoolean("end_phase", mcp.Description("Do nothing and end the current phase")),
	)
}

func arrangeCardsTool() mcp.Tool {
	return mcp.NewTool("arrange_cards",
		mcp.WithDescription("Split the listed cards into groups. Use when the pending decision type is 'arrange_cards'."),
		mcp.WithString("groups", mcp.Required(), mcp.Description("Groups of space-separated card ids, groups separated by ';' (e.g. '12 34; 56')")),
	)
}

func chooseOptionTool() mcp.Tool {
	return mcp.NewTool("choose_option",
		mcp.WithDescription("Pick one of the listed options. Use when the pending decision type is 'choose_option'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the options list")),
	)
}

func chooseGeneralTool() mcp.Tool {
	return mcp.NewTool("choose_general",
		mcp.WithDescription("Choose your general(s) from the candidates. Use when the pending decision type is 'choose_general'."),
		mcp.WithString("general_ids", mcp.Required(), mcp.Description("Space-separated general ids")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current state, accumulated events, and pending decision without answering anything. Read-only."),
	)
}

// --- Tool handlers ---

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession != nil {
		return mcp.NewToolResultError("A game is already running. Only one game at a time is supported."), nil
	}
	seats := request.GetInt("seats", 2)

	sess, err := NewGameSession(catalog, seats)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	activeSession = sess

	resp := sess.waitForPending()
	if resp.GameOver {
		activeSession = nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// answer validates the pending decision type, pushes the response to the
// blocked controller, and waits for the next decision.
func answer(expect DecisionType, response any) (*mcp.CallToolResult, bool) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), false
	}
	pending := activeSession.currentPending
	if pending == nil {
		return mcp.NewToolResultError("No pending decision."), false
	}
	if pending.Type != expect {
		return mcp.NewToolResultErrorf("Wrong tool: pending decision is '%s', not '%s'.", pending.Type, expect), false
	}

	activeSession.ctrl.responseCh <- response

	resp := activeSession.waitForPending()
	if resp.GameOver {
		activeSession = nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), true
}

func handleChooseTriggerOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index := request.GetInt("index", -1)
	result, _ := answer(DecisionTriggerOrder, orderResponse{Index: index})
	return result, nil
}

func handleProvideCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := parseIds(request.GetString("card_ids", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid card_ids: %v", err), nil
	}
	result, _ := answer(DecisionProvideCard, cardsResponse{
		CardIds: ids,
		Skill:   request.GetString("skill", ""),
	})
	return result, nil
}

func handlePickCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardId := request.GetInt("card_id", 0)
	result, _ := answer(DecisionPickCard, pickResponse{CardId: uint(cardId)})
	return result, nil
}

func handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardIds, err := parseIds(request.GetString("card_ids", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid card_ids: %v", err), nil
	}
	to, err := parseIds(request.GetString("to", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid to: %v", err), nil
	}
	response := actionResponse{
		CardId:   uint(request.GetInt("card_id", 0)),
		CardIds:  cardIds,
		Skill:    request.GetString("skill", ""),
		To:       to,
		Recast:   request.GetBool("recast", false),
		EndPhase: request.GetBool("end_phase", false),
	}

	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	pending := activeSession.currentPending
	if pending == nil {
		return mcp.NewToolResultError("No pending decision."), nil
	}
	if pending.Type != DecisionUseCard && pending.Type != DecisionActivate {
		return mcp.NewToolResultErrorf("Wrong tool: pending decision is '%s', not 'use_card' or 'activate'.", pending.Type), nil
	}
	result, _ := answer(pending.Type, response)
	return result, nil
}

func handleArrangeCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var groups [][]uint
	for _, part := range strings.Split(request.GetString("groups", ""), ";") {
		ids, err := parseIds(part)
		if err != nil {
			return mcp.NewToolResultErrorf("Invalid groups: %v", err), nil
		}
		groups = append(groups, ids)
	}
	result, _ := answer(DecisionArrangeCards, arrangeResponse{Groups: groups})
	return result, nil
}

func handleChooseOption(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index := request.GetInt("index", 0)
	result, _ := answer(DecisionChooseOption, optionResponse{Index: index})
	return result, nil
}

func handleChooseGeneral(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := parseIds(request.GetString("general_ids", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid general_ids: %v", err), nil
	}
	result, _ := answer(DecisionChooseGeneral, generalResponse{Ids: ids})
	return result, nil
}

func handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	sess := activeSession

	resp := &ToolResponse{
		Events: sess.drainEvents(),
		State:  buildStateView(sess.logic, sess.seat),
	}
	if resp.Events == nil {
		resp.Events = []log.GameEvent{}
	}
	sess.mu.Lock()
	resp.GameOver = sess.gameOver
	resp.Winners = sess.winners
	sess.mu.Unlock()
	if !resp.GameOver {
		resp.Pending = sess.currentPending
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func parseIds(s string) ([]uint, error) {
	var ids []uint
	for _, field := range strings.Fields(s) {
		id, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
