package dto

import (
	"encoding/json"

	"github.com/quiltchat/quilt/internal/client/models"
)

// DecodeProject parses a single project payload.
//
// Wire shape: {id, name, description?, systemPrompt?, color?, role, isShared,
// createdAt, updatedAt}. The membership role defaults to "owner" and isShared
// to false when the server omits them.
func DecodeProject(data []byte) (*models.Project, error) {
	o, err := parseObject("Project", data)
	if err != nil {
		return nil, err
	}

	p := &models.Project{}
	if p.ID, err = o.reqString("id"); err != nil {
		return nil, err
	}
	if p.Name, err = o.reqString("name"); err != nil {
		return nil, err
	}
	if p.Description, err = o.optString("description"); err != nil {
		return nil, err
	}
	if p.SystemPrompt, err = o.optString("systemPrompt"); err != nil {
		return nil, err
	}
	if p.Color, err = o.optString("color"); err != nil {
		return nil, err
	}
	if p.Role, err = o.stringOr("role", models.ProjectRoleOwner); err != nil {
		return nil, err
	}
	if p.IsShared, err = o.boolOr("isShared", false); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = o.reqTime("createdAt"); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = o.reqTime("updatedAt"); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeProjectList parses an array of projects with isolate-and-skip.
func DecodeProjectList(data []byte) ([]*models.Project, []error, error) {
	return decodeList("Project", data, DecodeProject)
}

// DecodeProjectMember parses a membership record with its embedded user
// summary.
func DecodeProjectMember(data []byte) (*models.ProjectMember, error) {
	o, err := parseObject("ProjectMember", data)
	if err != nil {
		return nil, err
	}

	m := &models.ProjectMember{}
	if m.ID, err = o.reqString("id"); err != nil {
		return nil, err
	}
	if m.ProjectID, err = o.optString("projectId"); err != nil {
		return nil, err
	}
	if m.UserID, err = o.reqString("userId"); err != nil {
		return nil, err
	}
	if m.Role, err = o.stringOr("role", models.ProjectRoleViewer); err != nil {
		return nil, err
	}
	if m.CreatedAt, err = o.optTime("createdAt"); err != nil {
		return nil, err
	}

	if raw, ok := o.raw("user"); ok {
		uo, err := parseObject("ProjectMember", raw)
		if err != nil {
			return nil, err
		}
		uo.entity = "ProjectMember.user"
		if m.User.ID, err = uo.reqString("id"); err != nil {
			return nil, err
		}
		if m.User.Name, err = uo.optString("name"); err != nil {
			return nil, err
		}
		if m.User.Email, err = uo.optString("email"); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// DecodeProjectMemberList parses an array of members with isolate-and-skip.
func DecodeProjectMemberList(data []byte) ([]*models.ProjectMember, []error, error) {
	return decodeList("ProjectMember", data, DecodeProjectMember)
}

// DecodeProjectFile parses a project file record.
func DecodeProjectFile(data []byte) (*models.ProjectFile, error) {
	o, err := parseObject("ProjectFile", data)
	if err != nil {
		return nil, err
	}

	f := &models.ProjectFile{}
	if f.ID, err = o.reqString("id"); err != nil {
		return nil, err
	}
	if f.ProjectID, err = o.reqString("projectId"); err != nil {
		return nil, err
	}
	if f.StorageID, err = o.reqString("storageId"); err != nil {
		return nil, err
	}
	if f.FileName, err = o.reqString("fileName"); err != nil {
		return nil, err
	}
	if f.FileType, err = o.reqString("fileType"); err != nil {
		return nil, err
	}
	if f.Content, err = o.optString("content"); err != nil {
		return nil, err
	}
	if f.CreatedAt, err = o.reqTime("createdAt"); err != nil {
		return nil, err
	}
	if f.Metadata, err = o.optValue("metadata"); err != nil {
		return nil, err
	}
	return f, nil
}

// DecodeProjectFileList parses an array of project files with
// isolate-and-skip.
func DecodeProjectFileList(data []byte) ([]*models.ProjectFile, []error, error) {
	return decodeList("ProjectFile", data, DecodeProjectFile)
}

type projectWire struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	SystemPrompt *string `json:"systemPrompt,omitempty"`
	Color        *string `json:"color,omitempty"`
	Role         string  `json:"role"`
	IsShared     bool    `json:"isShared"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// EncodeProject renders p in the wire shape.
func EncodeProject(p *models.Project) ([]byte, error) {
	return json.Marshal(projectWire{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		SystemPrompt: p.SystemPrompt,
		Color:        p.Color,
		Role:         p.Role,
		IsShared:     p.IsShared,
		CreatedAt:    FormatTimestamp(p.CreatedAt),
		UpdatedAt:    FormatTimestamp(p.UpdatedAt),
	})
}
