package service

import "errors"

// 生成相关错误
var (
	ErrGeneratorOptionsInvalid = errors.New("generator options invalid")
	ErrBrandNotInCatalog       = errors.New("brand not in catalog")
)

// 数据集校验错误（按违规类别）
var (
	ErrSchemaIncomplete   = errors.New("schema incomplete")
	ErrEnumViolation      = errors.New("enumeration violation")
	ErrFormatViolation    = errors.New("format violation")
	ErrNegativeAmount     = errors.New("negative amount")
	ErrPromoInconsistent  = errors.New("promo inconsistent")
	ErrDerivationMismatch = errors.New("derivation mismatch")
	ErrRankViolation      = errors.New("rank violation")
	ErrVolumeTooLow       = errors.New("volume too low")
)

// 抓取与细分榜单错误
var (
	ErrNoProductLinks   = errors.New("no product links found")
	ErrSegmentRowsEmpty = errors.New("segment rows must be positive")
)
