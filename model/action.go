package model

import "strings"

// Action is a moderation action key as stored in mod_cases.action.
type Action string

const (
	ActionWarn              Action = "warn"
	ActionBan               Action = "ban"
	ActionKick              Action = "kick"
	ActionTimeout           Action = "timeout"
	ActionUnban             Action = "unban"
	ActionUntimeout         Action = "untimeout"
	ActionUnwarn            Action = "unwarn"
	ActionUnwarnAll         Action = "unwarn_all"
	ActionPurge             Action = "purge"
	ActionTerminate         Action = "terminate"
	ActionAutoTimeout       Action = "auto_timeout"
	ActionWordFilterTimeout Action = "word_filter_timeout"
	ActionWordFilterDelete  Action = "word_filter_delete"
	ActionWordFilterWarn    Action = "word_filter_warn"
	ActionWordFilterLog     Action = "word_filter_log"
)

// CaseCode is the short tag used in case labels such as W12.
type CaseCode string

const (
	CodeWarn        CaseCode = "W"
	CodeBan         CaseCode = "B"
	CodeKick        CaseCode = "K"
	CodeTimeout     CaseCode = "T"
	CodeUnban       CaseCode = "UB"
	CodeUntimeout   CaseCode = "UT"
	CodeUnwarn      CaseCode = "UW"
	CodeUnwarnAll   CaseCode = "UWA"
	CodePurge       CaseCode = "P"
	CodeTerminate   CaseCode = "TR"
	CodeWordFilter  CaseCode = "WF"
	CodeAutoTimeout CaseCode = "AT"
	CodeManual      CaseCode = "M"
)

const wordFilterPrefix = "word_filter_"

// Code maps an action to its case code. Every declared action has an
// explicit entry; unknown keys fall back to CodeManual.
func (a Action) Code() CaseCode {
	switch a {
	case ActionWarn:
		return CodeWarn
	case ActionBan:
		return CodeBan
	case ActionKick:
		return CodeKick
	case ActionTimeout:
		return CodeTimeout
	case ActionUnban:
		return CodeUnban
	case ActionUntimeout:
		return CodeUntimeout
	case ActionUnwarn:
		return CodeUnwarn
	case ActionUnwarnAll:
		return CodeUnwarnAll
	case ActionPurge:
		return CodePurge
	case ActionTerminate:
		return CodeTerminate
	case ActionAutoTimeout:
		return CodeAutoTimeout
	case ActionWordFilterTimeout, ActionWordFilterDelete, ActionWordFilterWarn, ActionWordFilterLog:
		return CodeWordFilter
	}
	if strings.HasPrefix(string(a), wordFilterPrefix) {
		return CodeWordFilter
	}
	return CodeManual
}

// CodeForAction resolves the case code for a raw action string.
func CodeForAction(action string) CaseCode {
	return Action(action).Code()
}

// TimeoutActions are the actions counted as prior timeouts when computing
// an escalation tier.
var TimeoutActions = []Action{ActionTimeout, ActionAutoTimeout, ActionWordFilterTimeout}
