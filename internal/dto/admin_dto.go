package dto

type ArchiveSweepResponse struct {
	Archived int `json:"archived"`
}

type LogListQuery struct {
	Level  string `query:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`
	Module string `query:"module" validate:"omitempty,max=50"`
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=500"`
}
