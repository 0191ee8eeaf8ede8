package handler

import "github.com/finchapm/finch/pkg/transaction/model"

// FinalizeRequestDTO is the wire shape of one finished transaction as posted
// by the instrumentation layer.
type FinalizeRequestDTO struct {
	Attributes       map[string]interface{} `json:"attributes"`
	RootContextID    string                 `json:"root_context_id"`
	FunctionSegments []FunctionSegmentDTO   `json:"trace_function_segments"`
	ProcessSpawns    []SpawnEventDTO        `json:"trace_process_spawns"`
	ProcessNames     []NameEventDTO         `json:"trace_process_names"`
	ProcessExits     []ExitEventDTO         `json:"trace_process_exits"`
	Error            *ErrorInfoDTO          `json:"transaction_error,omitempty"`
}

type SpawnEventDTO struct {
	ContextID       string `json:"context_id"`
	StartTime       int64  `json:"start_time"`
	ParentContextID string `json:"parent_context_id"`
}

type NameEventDTO struct {
	ContextID string `json:"context_id"`
	Name      string `json:"name"`
}

type ExitEventDTO struct {
	ContextID string `json:"context_id"`
	EndTime   int64  `json:"end_time"`
}

type FunctionSegmentDTO struct {
	ContextID string                 `json:"context_id"`
	ID        string                 `json:"id"`
	ParentID  string                 `json:"parent_id"`
	StartTime int64                  `json:"start_time"`
	EndTime   int64                  `json:"end_time"`
	Module    string                 `json:"module,omitempty"`
	Function  string                 `json:"function,omitempty"`
	Arity     int                    `json:"arity,omitempty"`
	Args      string                 `json:"args,omitempty"`
	Primary   string                 `json:"primary,omitempty"`
	Secondary string                 `json:"secondary,omitempty"`
	Attrs     map[string]interface{} `json:"attributes,omitempty"`
}

type ErrorInfoDTO struct {
	ContextID string   `json:"context_id"`
	Reason    string   `json:"reason"`
	Stack     []string `json:"stack"`
	Expected  bool     `json:"expected"`
}

func mapFinalizeRequestDTOToModel(dto FinalizeRequestDTO) *model.Transaction {
	tx := &model.Transaction{
		Attributes:    model.Attributes(dto.Attributes),
		RootContextID: model.ContextID(dto.RootContextID),
	}
	if tx.Attributes == nil {
		tx.Attributes = model.Attributes{}
	}
	for _, s := range dto.ProcessSpawns {
		tx.ProcessSpawns = append(tx.ProcessSpawns, model.SpawnEvent{
			ContextID:       model.ContextID(s.ContextID),
			StartTime:       s.StartTime,
			ParentContextID: model.ContextID(s.ParentContextID),
		})
	}
	for _, n := range dto.ProcessNames {
		tx.ProcessNames = append(tx.ProcessNames, model.NameEvent{
			ContextID: model.ContextID(n.ContextID),
			Name:      n.Name,
		})
	}
	for _, e := range dto.ProcessExits {
		tx.ProcessExits = append(tx.ProcessExits, model.ExitEvent{
			ContextID: model.ContextID(e.ContextID),
			EndTime:   e.EndTime,
		})
	}
	for _, f := range dto.FunctionSegments {
		tx.FunctionSegments = append(tx.FunctionSegments, mapFunctionSegmentDTOToModel(f))
	}
	if dto.Error != nil {
		tx.Error = &model.ErrorInfo{
			ContextID: model.ContextID(dto.Error.ContextID),
			Reason:    dto.Error.Reason,
			Stack:     dto.Error.Stack,
			Expected:  dto.Error.Expected,
		}
	}
	return tx
}

// mapFunctionSegmentDTOToModel picks the segment variant from the populated
// name fields; module/function wins when both shapes are present.
func mapFunctionSegmentDTOToModel(dto FunctionSegmentDTO) model.FunctionSegment {
	seg := model.FunctionSegment{
		ContextID: model.ContextID(dto.ContextID),
		ID:        dto.ID,
		ParentID:  dto.ParentID,
		StartTime: dto.StartTime,
		EndTime:   dto.EndTime,
	}
	if dto.Module != "" || dto.Function != "" {
		seg.Call = &model.FunctionCall{
			Module:   dto.Module,
			Function: dto.Function,
			Arity:    dto.Arity,
			Args:     dto.Args,
		}
	} else {
		seg.Named = &model.NamedSegment{
			Primary:    dto.Primary,
			Secondary:  dto.Secondary,
			Attributes: dto.Attrs,
		}
	}
	return seg
}
