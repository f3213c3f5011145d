package dto

import "github.com/weegaboo/agro-mvp/internal/domain"

type ListProjectsResponse struct {
	Projects []string `json:"projects"`
}

// Project documents travel over the wire in their storage format.
type ProjectResponse struct {
	Project domain.Project `json:"project"`
}

type SaveProjectRequest struct {
	Project domain.Project `json:"project"`
}
