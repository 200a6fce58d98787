package storage

import (
	"encoding/json"
	"errors"

	"evoselect/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeResult(r model.Result) ([]byte, error) {
	r.SchemaVersion = CurrentSchemaVersion
	r.CodecVersion = CurrentCodecVersion
	return json.Marshal(r)
}

func DecodeResult(data []byte) (model.Result, error) {
	var result model.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return model.Result{}, err
	}
	if err := checkVersion(result.VersionedRecord); err != nil {
		return model.Result{}, err
	}
	return result, nil
}

func EncodeReport(r model.Report) ([]byte, error) {
	r.SchemaVersion = CurrentSchemaVersion
	r.CodecVersion = CurrentCodecVersion
	return json.Marshal(r)
}

func DecodeReport(data []byte) (model.Report, error) {
	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return model.Report{}, err
	}
	if err := checkVersion(report.VersionedRecord); err != nil {
		return model.Report{}, err
	}
	return report, nil
}

func EncodeHistory(history []model.GenerationStats) ([]byte, error) {
	return json.Marshal(history)
}

func DecodeHistory(data []byte) ([]model.GenerationStats, error) {
	var history []model.GenerationStats
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
