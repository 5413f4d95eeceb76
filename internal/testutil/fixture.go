package testutil

import "github.com/roach88/caasets/internal/model"

// Property and global ids of StandardBatch.
const (
	PropStrength    int64 = 1 // numeric, coding system 1
	PropBehavior    int64 = 2 // text, coding system 1
	PropCode        int64 = 3 // text, coding system 1
	PropValence     int64 = 4 // text, coding system 2 (no interviews)
	GlobalEmpathy   int64 = 1
	GlobalPartner   int64 = 2
	GlobalWarmth    int64 = 3 // coding system 2
	UnknownProperty int64 = 999
)

// StandardBatch is the shared test fixture:
//
//	S1 client 101 rater R1 session 1: u1 Behavior=Question
//	                                  u2 Strength=3 Code=X
//	                                  u3 Behavior=Reflection Code=X
//	S2 client 101 rater R1 session 2: u4 Behavior=Question
//	                                  u5 Strength=1
//	S3 client 9   rater R2 session 1: u6 Strength=3 Code=X
//
// Global ratings: S1 Empathy=4 Partnership=3, S2 Empathy=5, S3 none.
// Coding system 2 (Valence, Warmth) has no interviews.
func StandardBatch() model.Batch {
	return model.Batch{
		CodingSystems: []model.CodingSystem{
			{ID: 1, Name: "MITI"},
			{ID: 2, Name: "Affect"},
		},
		Interviews: []model.Interview{
			{ID: 1, Name: "S1", ClientID: "101", RaterID: "R1", SessionNumber: 1, CodingSystemID: 1},
			{ID: 2, Name: "S2", ClientID: "101", RaterID: "R1", SessionNumber: 2, CodingSystemID: 1},
			{ID: 3, Name: "S3", ClientID: "9", RaterID: "R2", SessionNumber: 1, CodingSystemID: 1},
		},
		Utterances: []model.Utterance{
			{ID: 1, InterviewID: 1, Enum: 1, Line: 1, Role: "T", Text: "How are you?", StartTime: "00:00:01", EndTime: "00:00:03"},
			{ID: 2, InterviewID: 1, Enum: 2, Line: 2, Role: "C", Text: "Fine.", StartTime: "00:00:04", EndTime: "00:00:05"},
			{ID: 3, InterviewID: 1, Enum: 3, Line: 3, Role: "T", Text: "Tell me more."},
			{ID: 4, InterviewID: 2, Enum: 1, Line: 1, Role: "T", Text: "Welcome back."},
			{ID: 5, InterviewID: 2, Enum: 2, Line: 2, Role: "C", Text: "Thanks."},
			{ID: 6, InterviewID: 3, Enum: 1, Line: 1, Role: "C", Text: "I want to change."},
		},
		CodingProperties: []model.CodingProperty{
			{ID: PropStrength, CodingSystemID: 1, Name: "strength", DisplayName: "Strength", Description: "Change talk strength", DataType: model.DataTypeNumeric},
			{ID: PropBehavior, CodingSystemID: 1, Name: "behavior", DisplayName: "Behavior", Description: "Therapist behavior", DataType: model.DataTypeText},
			{ID: PropCode, CodingSystemID: 1, Name: "code", DisplayName: "Code", Description: "Client code", DataType: model.DataTypeText},
			{ID: PropValence, CodingSystemID: 2, Name: "valence", DisplayName: "Valence", DataType: model.DataTypeText},
		},
		PropertyValues: []model.PropertyValue{
			{ID: 11, PropertyID: PropStrength, Value: "1"},
			{ID: 12, PropertyID: PropStrength, Value: "3"},
			{ID: 21, PropertyID: PropBehavior, Value: "Question", Description: "Open or closed question"},
			{ID: 22, PropertyID: PropBehavior, Value: "Reflection", Description: "Simple or complex reflection"},
			{ID: 31, PropertyID: PropCode, Value: "X"},
			{ID: 32, PropertyID: PropCode, Value: "Y"},
			{ID: 41, PropertyID: PropValence, Value: "pos"},
		},
		UtteranceCodes: []model.UtteranceCode{
			{UtteranceID: 1, PropertyValueID: 21},
			{UtteranceID: 2, PropertyValueID: 12},
			{UtteranceID: 2, PropertyValueID: 31},
			{UtteranceID: 3, PropertyValueID: 22},
			{UtteranceID: 3, PropertyValueID: 31},
			{UtteranceID: 4, PropertyValueID: 21},
			{UtteranceID: 5, PropertyValueID: 11},
			{UtteranceID: 6, PropertyValueID: 12},
			{UtteranceID: 6, PropertyValueID: 31},
		},
		GlobalProperties: []model.GlobalProperty{
			{ID: GlobalEmpathy, CodingSystemID: 1, Name: "Empathy", Description: "Global empathy rating"},
			{ID: GlobalPartner, CodingSystemID: 1, Name: "Partnership", Description: "Global partnership rating"},
			{ID: GlobalWarmth, CodingSystemID: 2, Name: "Warmth"},
		},
		GlobalValues: []model.GlobalValue{
			{ID: 101, GlobalPropertyID: GlobalEmpathy, Value: "4"},
			{ID: 102, GlobalPropertyID: GlobalEmpathy, Value: "5"},
			{ID: 201, GlobalPropertyID: GlobalPartner, Value: "3"},
			{ID: 301, GlobalPropertyID: GlobalWarmth, Value: "2"},
		},
		GlobalRatings: []model.GlobalRating{
			{InterviewID: 1, GlobalValueID: 101},
			{InterviewID: 1, GlobalValueID: 201},
			{InterviewID: 2, GlobalValueID: 102},
		},
	}
}
