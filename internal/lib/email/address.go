package email

import (
	"fmt"
	"strings"
)

// Address is a parsed email address. Matching is always case-insensitive, so
// the local part and domain are normalised to lower case on parse.
type Address struct {
	local  string
	domain string
}

func Parse(raw string) (Address, error) {
	trimmed := strings.TrimSpace(raw)
	at := strings.LastIndex(trimmed, "@")
	if at <= 0 || at == len(trimmed)-1 {
		return Address{}, fmt.Errorf("invalid email address %q", raw)
	}
	return Address{
		local:  strings.ToLower(trimmed[:at]),
		domain: strings.ToLower(trimmed[at+1:]),
	}, nil
}

func (a Address) String() string {
	return a.local + "@" + a.domain
}

func (a Address) Domain() string {
	return a.domain
}

func (a Address) Equal(other Address) bool {
	return a.local == other.local && a.domain == other.domain
}

func (a Address) SameDomain(other Address) bool {
	return a.domain == other.domain
}

// GenericDomains is the set of consumer email providers. A user on one of
// these domains shares it with unrelated suppliers, so domain-level matching
// must never apply to them.
type GenericDomains map[string]struct{}

func NewGenericDomains(domains []string) GenericDomains {
	set := make(GenericDomains, len(domains))
	for _, d := range domains {
		set[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}
	return set
}

func (g GenericDomains) Contains(domain string) bool {
	_, ok := g[strings.ToLower(domain)]
	return ok
}

// DefaultGenericDomains mirrors the marketplace production configuration.
var DefaultGenericDomains = []string{
	"bigpond.com", "digital.gov.au", "gmail.com", "hotmail.com", "icloud.com",
	"iinet.net.au", "internode.on.net", "live.com.au", "me.com", "msn.com",
	"optusnet.com.au", "outlook.com", "outlook.com.au", "ozemail.com.au",
	"yahoo.com", "yahoo.com.au",
}
