package types

import (
	"testing"
)

func TestIsValid(t *testing.T) {
	valid := TradingAction{ActionType: ActionBuy, Symbol: "AAPL", Confidence: 0.95}
	if !valid.IsValid() {
		t.Error("Expected BUY AAPL 0.95 to be valid")
	}

	unknown := TradingAction{ActionType: ActionUnknown, Symbol: "AAPL", Confidence: 0.9}
	if unknown.IsValid() {
		t.Error("Expected unknown action type to be invalid")
	}

	noSymbol := TradingAction{ActionType: ActionBuy, Symbol: "", Confidence: 0.9}
	if noSymbol.IsValid() {
		t.Error("Expected empty symbol to be invalid")
	}

	tooConfident := TradingAction{ActionType: ActionBuy, Symbol: "AAPL", Confidence: 1.5}
	if tooConfident.IsValid() {
		t.Error("Expected confidence above 1 to be invalid")
	}

	negative := TradingAction{ActionType: ActionSell, Symbol: "QQQ", Confidence: -0.1}
	if negative.IsValid() {
		t.Error("Expected negative confidence to be invalid")
	}
}

func TestIsExecutable(t *testing.T) {
	buy := TradingAction{ActionType: ActionBuy, Symbol: "AAPL", Confidence: 0.95}
	if !buy.IsExecutable(0.7) {
		t.Error("Expected BUY AAPL 0.95 to be executable at threshold 0.7")
	}
	if buy.IsExecutable(0.96) {
		t.Error("Expected BUY AAPL 0.95 to not be executable at threshold 0.96")
	}

	hold := TradingAction{ActionType: ActionHold, Symbol: "AAPL", Confidence: 0.95}
	if hold.IsExecutable(0.7) {
		t.Error("Expected HOLD to never be executable")
	}

	invalid := TradingAction{ActionType: ActionUnknown, Symbol: ""}
	if invalid.IsValid() || invalid.IsExecutable(0.7) {
		t.Error("Expected unknown action with empty symbol to be neither valid nor executable")
	}
}

func TestParseActionType(t *testing.T) {
	cases := map[string]ActionType{
		"buy":     ActionBuy,
		"BUY":     ActionBuy,
		" Sell ":  ActionSell,
		"hold":    ActionHold,
		"unknown": ActionUnknown,
		"yolo":    ActionUnknown,
		"":        ActionUnknown,
	}
	for input, want := range cases {
		if got := ParseActionType(input); got != want {
			t.Errorf("ParseActionType(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestParseTime(t *testing.T) {
	msg := Message{SendTime: "10/5/2024 12:25 PM"}
	parsed, ok := msg.ParseTime()
	if !ok {
		t.Fatal("Expected 10/5/2024 12:25 PM to parse")
	}
	if parsed.Month() != 10 || parsed.Day() != 5 || parsed.Year() != 2024 {
		t.Errorf("Unexpected date: %v", parsed)
	}
	if parsed.Hour() != 12 || parsed.Minute() != 25 {
		t.Errorf("Unexpected time: %v", parsed)
	}

	iso := Message{SendTime: "2024-10-05 12:25:00"}
	if _, ok := iso.ParseTime(); !ok {
		t.Error("Expected ISO-ish format to parse")
	}

	garbage := Message{SendTime: "not a time"}
	if _, ok := garbage.ParseTime(); ok {
		t.Error("Expected unparseable time to report false")
	}
}
