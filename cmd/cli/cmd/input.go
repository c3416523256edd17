package cmd

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"gear-cost/core/catalog"
	"gear-cost/core/deficit"
	"gear-cost/core/gear"
	"gear-cost/core/refdata"
	"gear-cost/core/types"
	"gear-cost/internal/errors"
	"gear-cost/internal/suggest"
)

// buildRequest starts from the request file, or every part at the default
// tier when there is none, then applies the command line overrides
func buildRequest(ref *refdata.Reference, inputPath string, parts, owned, buys []string) (deficit.Request, error) {
	var req deficit.Request
	if inputPath != "" {
		loaded, err := loadRequestFile(inputPath)
		if err != nil {
			return req, err
		}
		req = loaded
	} else {
		req = deficit.DefaultRequest(ref)
	}

	for _, arg := range parts {
		if err := applyPart(ref, &req, arg); err != nil {
			return req, err
		}
	}
	for _, arg := range owned {
		if err := applyOwned(&req, arg); err != nil {
			return req, err
		}
	}
	for _, arg := range buys {
		if err := applyBuy(&req, arg); err != nil {
			return req, err
		}
	}
	return req, nil
}

// loadRequestFile reads a YAML or JSON request
func loadRequestFile(path string) (deficit.Request, error) {
	var req deficit.Request
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return req, errors.NotFound("request file", path)
		}
		return req, errors.Wrapf(errors.TypeInput, err, "read %s", path)
	}
	if err := yaml.Unmarshal(data, &req); err != nil {
		return req, errors.Parsing("decode request "+path, err)
	}
	return req, nil
}

func splitAssignment(arg, flag string) (string, string, error) {
	name, value, ok := strings.Cut(arg, "=")
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if !ok || name == "" || value == "" {
		return "", "", errors.Newf(errors.TypeInput, "--%s %q: expected NAME=VALUE", flag, arg)
	}
	return name, value, nil
}

// applyPart handles --part Coat=Gold:Legendary and --part Coat=Legendary
func applyPart(ref *refdata.Reference, req *deficit.Request, arg string) error {
	name, value, err := splitAssignment(arg, "part")
	if err != nil {
		return err
	}
	part, err := canonicalPart(name)
	if err != nil {
		return err
	}

	current, target, hasCurrent := strings.Cut(value, ":")
	if !hasCurrent {
		current, target = "", value
	}

	for i := range req.Parts {
		if req.Parts[i].Part == part {
			if hasCurrent {
				req.Parts[i].Current = current
			}
			req.Parts[i].Target = target
			return nil
		}
	}
	if !hasCurrent {
		current = deficit.StartTier(ref)
	}
	req.Parts = append(req.Parts, deficit.PartSelection{Part: part, Current: current, Target: target})
	return nil
}

func canonicalPart(name string) (string, error) {
	for _, p := range gear.Parts() {
		if strings.EqualFold(p, name) {
			return p, nil
		}
	}
	err := errors.NotFound("gear part", name)
	if near := suggest.Closest(name, gear.Parts(), 3); len(near) > 0 {
		err = err.WithContext("did_you_mean", near)
	}
	return "", err
}

// applyOwned handles --owned Alloy=1200; later values replace earlier ones
func applyOwned(req *deficit.Request, arg string) error {
	name, value, err := splitAssignment(arg, "owned")
	if err != nil {
		return err
	}
	amount, err := strconv.ParseInt(strings.ReplaceAll(value, ",", ""), 10, 64)
	if err != nil {
		return errors.Wrapf(errors.TypeInput, err, "--owned %q: amount is not a whole number", arg)
	}
	kind := canonicalResource(name)

	for i := range req.Owned {
		if req.Owned[i].Resource == kind {
			req.Owned[i].Amount = amount
			return nil
		}
	}
	req.Owned = append(req.Owned, types.Holding{Resource: kind, Amount: amount})
	return nil
}

// canonicalResource maps case-insensitive kinds and display labels onto the
// tracked resource names; anything else is passed through for custom tables
func canonicalResource(name string) types.ResourceKind {
	for _, kind := range gear.Resources() {
		if strings.EqualFold(string(kind), name) || strings.EqualFold(gear.Label(kind), name) {
			return kind
		}
	}
	return types.ResourceKind(name)
}

// applyBuy handles --buy Sublime_$5=2; counts for the same bundle add up
func applyBuy(req *deficit.Request, arg string) error {
	name, value, err := splitAssignment(arg, "buy")
	if err != nil {
		return err
	}
	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return errors.Wrapf(errors.TypeInput, err, "--buy %q: count is not a whole number", arg)
	}

	if req.Purchases == nil {
		req.Purchases = catalog.Purchases{}
	}
	if k, ok := catalog.ParseKey(name); ok {
		req.Purchases.Add(k, count)
	} else {
		// reported back as an ignored bundle
		req.Purchases[name] += count
	}
	return nil
}
