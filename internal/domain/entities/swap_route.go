package entities

import (
	"strings"

	valueobjects "blaze/internal/domain/value_objects"
	apperrors "blaze/internal/shared_kernel/errors"
)

// SwapRouteDefinition describes a univ2-style pool reachable through a router contract.
type SwapRouteDefinition struct {
	PoolID        uint64 `json:"poolId"`
	Router        string `json:"router"`
	Core          string `json:"core"`
	ShareFeeTo    string `json:"shareFeeTo"`
	Token0        string `json:"token0"`
	Token1        string `json:"token1"`
	Token0Symbol  string `json:"token0Symbol"`
	Token1Symbol  string `json:"token1Symbol"`
	ProtocolFeeBp int64  `json:"protocolFeeBps"`
}

type SwapRoute struct {
	Definition SwapRouteDefinition
	Router     valueobjects.Principal
	Core       valueobjects.Principal
	ShareFeeTo valueobjects.Principal
	Token0     valueobjects.Principal
	Token1     valueobjects.Principal
}

func DefaultSwapRouteDefinitions() []SwapRouteDefinition {
	return []SwapRouteDefinition{
		{
			PoolID:        27,
			Router:        "SP1Y5YSTAHZ88XYK1VPDH24GY0HPX5J4JECTMY4A1.univ2-router",
			Core:          "SP1Y5YSTAHZ88XYK1VPDH24GY0HPX5J4JECTMY4A1.univ2-core",
			ShareFeeTo:    "SP1Y5YSTAHZ88XYK1VPDH24GY0HPX5J4JECTMY4A1.univ2-share-fee-to",
			Token0:        "SP1Y5YSTAHZ88XYK1VPDH24GY0HPX5J4JECTMY4A1.wstx",
			Token1:        "SP3NE50GEXFG9SZGTT51P40X2CKYSZ5CC4ZTZ7A2G.welshcorgicoin-token",
			Token0Symbol:  "STX",
			Token1Symbol:  "WELSH",
			ProtocolFeeBp: 100,
		},
	}
}

func NewSwapRoute(definition SwapRouteDefinition) (SwapRoute, *apperrors.AppError) {
	route := SwapRoute{Definition: definition}
	fields := []struct {
		name   string
		raw    string
		target *valueobjects.Principal
	}{
		{name: "router", raw: definition.Router, target: &route.Router},
		{name: "core", raw: definition.Core, target: &route.Core},
		{name: "shareFeeTo", raw: definition.ShareFeeTo, target: &route.ShareFeeTo},
		{name: "token0", raw: definition.Token0, target: &route.Token0},
		{name: "token1", raw: definition.Token1, target: &route.Token1},
	}
	for _, field := range fields {
		principal, appErr := valueobjects.ParseContractPrincipal(field.raw)
		if appErr != nil {
			appErr.Details = mergeDetails(appErr.Details, map[string]any{"field": field.name})
			return SwapRoute{}, appErr
		}
		*field.target = principal
	}
	if definition.ProtocolFeeBp < 0 || definition.ProtocolFeeBp > 10000 {
		return SwapRoute{}, apperrors.NewValidation(
			"invalid_swap_route",
			"protocol fee must be between 0 and 10000 basis points",
			map[string]any{"protocolFeeBps": definition.ProtocolFeeBp},
		)
	}
	return route, nil
}

// Direction reports whether the pair (in, out) follows token0->token1.
func (r SwapRoute) Direction(symbolIn, symbolOut string) (bool, bool) {
	switch {
	case strings.EqualFold(symbolIn, r.Definition.Token0Symbol) && strings.EqualFold(symbolOut, r.Definition.Token1Symbol):
		return true, true
	case strings.EqualFold(symbolIn, r.Definition.Token1Symbol) && strings.EqualFold(symbolOut, r.Definition.Token0Symbol):
		return false, true
	default:
		return false, false
	}
}

func FindSwapRoute(routes []SwapRoute, symbolIn, symbolOut string) (SwapRoute, bool, *apperrors.AppError) {
	for _, route := range routes {
		if forward, ok := route.Direction(symbolIn, symbolOut); ok {
			return route, forward, nil
		}
	}
	return SwapRoute{}, false, apperrors.NewNotFound(
		"swap_route_not_found",
		"no swap route exists for the token pair",
		map[string]any{"token_in": symbolIn, "token_out": symbolOut},
	)
}
