package dto

import (
	"github.com/quiltchat/quilt/internal/client/models"
)

// DecodeUserModel parses a per-user catalog entry.
//
// Wire shape: {modelId, provider, enabled, pinned, contextLength?,
// inputCostPerM?, outputCostPerM?, maxResolution?, supportsVision?,
// supportsTools?, reasoningEffort?, parameters?}.
func DecodeUserModel(data []byte) (*models.UserModel, error) {
	o, err := parseObject("UserModel", data)
	if err != nil {
		return nil, err
	}

	m := &models.UserModel{}
	if m.ModelID, err = o.reqString("modelId"); err != nil {
		return nil, err
	}
	if m.Provider, err = o.reqString("provider"); err != nil {
		return nil, err
	}
	if m.Enabled, err = o.boolOr("enabled", false); err != nil {
		return nil, err
	}
	if m.Pinned, err = o.boolOr("pinned", false); err != nil {
		return nil, err
	}
	if m.ContextLength, err = o.optInt("contextLength"); err != nil {
		return nil, err
	}
	if m.InputCostPerM, err = o.optFloat("inputCostPerM"); err != nil {
		return nil, err
	}
	if m.OutputCostPerM, err = o.optFloat("outputCostPerM"); err != nil {
		return nil, err
	}
	if m.MaxResolution, err = o.optString("maxResolution"); err != nil {
		return nil, err
	}
	if m.SupportsVision, err = o.optBool("supportsVision"); err != nil {
		return nil, err
	}
	if m.SupportsTools, err = o.optBool("supportsTools"); err != nil {
		return nil, err
	}
	if m.ReasoningEffort, err = o.optString("reasoningEffort"); err != nil {
		return nil, err
	}
	if m.Parameters, err = o.valueMap("parameters"); err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeUserModelList parses an array of user models with isolate-and-skip.
func DecodeUserModelList(data []byte) ([]*models.UserModel, []error, error) {
	return decodeList("UserModel", data, DecodeUserModel)
}

// DecodeModelInfo parses a user-independent catalog entry, including its
// optional benchmark block.
func DecodeModelInfo(data []byte) (*models.ModelInfo, error) {
	o, err := parseObject("ModelInfo", data)
	if err != nil {
		return nil, err
	}

	m := &models.ModelInfo{}
	if m.ModelID, err = o.reqString("modelId"); err != nil {
		return nil, err
	}
	if m.Provider, err = o.reqString("provider"); err != nil {
		return nil, err
	}
	if m.DisplayName, err = o.stringOr("displayName", ""); err != nil {
		return nil, err
	}
	if m.ContextLength, err = o.optInt("contextLength"); err != nil {
		return nil, err
	}
	if m.InputCostPerM, err = o.optFloat("inputCostPerM"); err != nil {
		return nil, err
	}
	if m.OutputCostPerM, err = o.optFloat("outputCostPerM"); err != nil {
		return nil, err
	}

	if raw, ok := o.raw("benchmarks"); ok {
		bo, err := parseObject("ModelInfo.benchmarks", raw)
		if err != nil {
			return nil, err
		}
		b := &models.ModelBenchmarks{}
		if b.MMLU, err = bo.optFloat("mmlu"); err != nil {
			return nil, err
		}
		if b.GPQA, err = bo.optFloat("gpqa"); err != nil {
			return nil, err
		}
		if b.HumanEval, err = bo.optFloat("humanEval"); err != nil {
			return nil, err
		}
		m.Benchmarks = b
	}
	return m, nil
}

// DecodeModelInfoList parses an array of catalog entries with
// isolate-and-skip.
func DecodeModelInfoList(data []byte) ([]*models.ModelInfo, []error, error) {
	return decodeList("ModelInfo", data, DecodeModelInfo)
}

// DecodeProviderInfo parses per-provider availability and pricing.
func DecodeProviderInfo(data []byte) (*models.ProviderInfo, error) {
	o, err := parseObject("ProviderInfo", data)
	if err != nil {
		return nil, err
	}

	p := &models.ProviderInfo{}
	if p.Name, err = o.reqString("name"); err != nil {
		return nil, err
	}
	if p.Available, err = o.boolOr("available", true); err != nil {
		return nil, err
	}
	if p.InputCostPerM, err = o.optFloat("inputCostPerM"); err != nil {
		return nil, err
	}
	if p.OutputCostPerM, err = o.optFloat("outputCostPerM"); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeProviderInfoList parses an array of providers with isolate-and-skip.
func DecodeProviderInfoList(data []byte) ([]*models.ProviderInfo, []error, error) {
	return decodeList("ProviderInfo", data, DecodeProviderInfo)
}
