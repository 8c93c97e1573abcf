package swrouter

import "strconv"

// IPProto represents the IP protocol number carried in the IPv4 Protocol
// field (and the IPv6 Next Header field). Shared at the root of the module
// since both the ipv4 codec and the router's dispatcher need to name
// protocol numbers without importing each other.
type IPProto uint8

// IP protocol numbers, per the IANA assigned internet protocol numbers registry.
const (
	IPProtoHopByHop  IPProto = 0  // IPv6 Hop-by-Hop Option [RFC8200]
	IPProtoICMP      IPProto = 1  // Internet Control Message [RFC792]
	IPProtoIGMP      IPProto = 2  // Internet Group Management [RFC1112]
	IPProtoGGP       IPProto = 3  // Gateway-to-Gateway [RFC823]
	IPProtoIPv4      IPProto = 4  // IPv4 encapsulation [RFC2003]
	IPProtoTCP       IPProto = 6  // Transmission Control [RFC793]
	IPProtoEGP       IPProto = 8  // Exterior Gateway Protocol [RFC888]
	IPProtoIGP       IPProto = 9  // any private interior gateway
	IPProtoUDP       IPProto = 17 // User Datagram [RFC768]
	IPProtoIPv6      IPProto = 41 // IPv6 encapsulation [RFC2473]
	IPProtoIPv6Route IPProto = 43 // Routing Header for IPv6 [RFC8200]
	IPProtoIPv6Frag  IPProto = 44 // Fragment Header for IPv6 [RFC8200]
	IPProtoGRE       IPProto = 47 // Generic Routing Encapsulation [RFC2784]
	IPProtoESP       IPProto = 50 // Encap Security Payload [RFC4303]
	IPProtoAH        IPProto = 51 // Authentication Header [RFC4302]
	IPProtoIPv6ICMP  IPProto = 58 // ICMP for IPv6 [RFC8200]
	IPProtoIPv6NoNxt IPProto = 59 // No Next Header for IPv6 [RFC8200]
	IPProtoIPv6Opts  IPProto = 60 // Destination Options for IPv6 [RFC8200]
	IPProtoOSPFIGP   IPProto = 89 // OSPFIGP
	IPProtoSCTP      IPProto = 132
)

var ipProtoNames = map[IPProto]string{
	IPProtoHopByHop:  "HopByHop",
	IPProtoICMP:      "ICMP",
	IPProtoIGMP:      "IGMP",
	IPProtoGGP:       "GGP",
	IPProtoIPv4:      "IPv4",
	IPProtoTCP:       "TCP",
	IPProtoEGP:       "EGP",
	IPProtoIGP:       "IGP",
	IPProtoUDP:       "UDP",
	IPProtoIPv6:      "IPv6",
	IPProtoIPv6Route: "IPv6Route",
	IPProtoIPv6Frag:  "IPv6Frag",
	IPProtoGRE:       "GRE",
	IPProtoESP:       "ESP",
	IPProtoAH:        "AH",
	IPProtoIPv6ICMP:  "IPv6ICMP",
	IPProtoIPv6NoNxt: "IPv6NoNxt",
	IPProtoIPv6Opts:  "IPv6Opts",
	IPProtoOSPFIGP:   "OSPFIGP",
	IPProtoSCTP:      "SCTP",
}

func (p IPProto) String() string {
	if s, ok := ipProtoNames[p]; ok {
		return s
	}
	return "IPProto(" + strconv.Itoa(int(p)) + ")"
}
