// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"strings"
	"sync"
)

// CatalogVersion identifies the built-in Connect Secure catalog.
const CatalogVersion = "2025.1"

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the built-in Connect Secure registry. It panics if the
// catalog fails validation, which is a programming error.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(CatalogVersion, Catalog())
		if err != nil {
			panic("operation: invalid built-in catalog: " + err.Error())
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

func define(method Method, id, name, endpoint, description string, params ...Parameter) Operation {
	return Operation{
		ID:          id,
		Name:        name,
		Description: description,
		Action:      actionText(name),
		Method:      method,
		Endpoint:    endpoint,
		Parameters:  params,
	}
}

// actionText turns "Get Company Stats" into "Get company stats".
func actionText(name string) string {
	words := strings.Fields(name)
	for i := 1; i < len(words); i++ {
		if strings.ToUpper(words[i]) != words[i] {
			words[i] = strings.ToLower(words[i])
		}
	}
	return strings.Join(words, " ")
}

func pathParam(name, displayName string) Parameter {
	return Parameter{
		Name:        name,
		DisplayName: displayName,
		Type:        ParameterTypeString,
		Default:     "",
		Required:    true,
		Description: "Identifier substituted into the endpoint path",
	}
}

func field(name, displayName string, t ParameterType, description string) Parameter {
	p := Parameter{
		Name:        name,
		DisplayName: displayName,
		Type:        t,
		Description: description,
	}
	switch t {
	case ParameterTypeString:
		p.Default = ""
	case ParameterTypeBoolean:
		p.Default = false
	case ParameterTypeNumber:
		p.Default = 0
	}
	return p
}

func choice(name, displayName, def string, options ...Option) Parameter {
	return Parameter{
		Name:        name,
		DisplayName: displayName,
		Type:        ParameterTypeOptions,
		Default:     def,
		Options:     options,
	}
}

// Catalog returns a fresh copy of the built-in resource table.
func Catalog() []Resource {
	return []Resource{
		{
			ID:               "auth",
			Name:             "Auth",
			Description:      "Authenticate against the Connect Secure API",
			DefaultOperation: "authorize",
			Operations: []Operation{
				define(MethodPost, "authorize", "Authorize", "/w/authorize", "Exchange a username and password for an access token",
					field("username", "Username", ParameterTypeString, "Account username"),
					field("password", "Password", ParameterTypeString, "Account password")),
			},
		},
		{
			ID:               "company",
			Name:             "Company",
			Description:      "Manage companies",
			IDField:          "companyId",
			InjectID:         true,
			DefaultOperation: "getAllCompanies",
			Operations: []Operation{
				define(MethodGet, "getAllCompanies", "Get All Companies", "/r/company/companies", "Retrieve all companies"),
				define(MethodGet, "getCompany", "Get Company", "/r/company/companies/{id}", "Retrieve a company by ID"),
				define(MethodPost, "createCompany", "Create Company", "/w/company/companies", "Create a new company",
					field("name", "Name", ParameterTypeString, "Company name"),
					field("description", "Description", ParameterTypeString, "Company description")),
				define(MethodPut, "updateCompany", "Update Company", "/w/company/companies/{id}", "Update a company",
					field("name", "Name", ParameterTypeString, "Company name"),
					field("description", "Description", ParameterTypeString, "Company description")),
				define(MethodDelete, "deleteCompany", "Delete Company", "/d/company/companies/{id}", "Delete a company"),
				define(MethodGet, "getCompanyStats", "Get Company Stats", "/r/company/companies/{id}/stats", "Retrieve statistics for a company"),
				define(MethodGet, "getCompanyStat", "Get Company Stat", "/r/company/company_stats/{statId}", "Retrieve a single company statistic",
					pathParam("statId", "Stat ID")),
				define(MethodGet, "getAllJobs", "Get All Jobs", "/r/company/jobs", "Retrieve all jobs"),
				define(MethodGet, "getJob", "Get Job", "/r/company/companies/{id}/jobs/{jobId}", "Retrieve a job of a company",
					pathParam("jobId", "Job ID")),
				define(MethodGet, "getAssetWindowsCompatibility", "Get Asset Windows Compatibility", "/r/company/asset_windows_compatibility", "Retrieve Windows compatibility of assets"),
			},
		},
		{
			ID:               "agent",
			Name:             "Agent",
			Description:      "Manage agents",
			IDField:          "agentId",
			InjectID:         true,
			DefaultOperation: "getAllAgents",
			Operations: []Operation{
				define(MethodGet, "getAllAgents", "Get All Agents", "/r/company/agents", "Retrieve all agents"),
				define(MethodGet, "getAgent", "Get Agent", "/r/company/agents/{id}", "Retrieve an agent by ID"),
				define(MethodPut, "updateAgent", "Update Agent", "/w/company/agents/{id}", "Update an agent",
					field("name", "Name", ParameterTypeString, "Agent name"),
					field("company_id", "Company ID", ParameterTypeNumber, "Owning company"),
					choice("agent_type", "Agent Type", "PROBE",
						Option{Name: "Probe", Value: "PROBE"},
						Option{Name: "Lightweight", Value: "LIGHTWEIGHT"})),
				define(MethodDelete, "deleteAgent", "Delete Agent", "/d/company/agents/{id}", "Delete an agent"),
			},
		},
		{
			ID:               "credentials",
			Name:             "Credentials",
			Description:      "Manage scan credentials",
			IDField:          "credentialId",
			InjectID:         true,
			DefaultOperation: "getAllCredentials",
			Operations: []Operation{
				define(MethodGet, "getAllCredentials", "Get All Credentials", "/r/company/credentials", "Retrieve all credentials"),
				define(MethodGet, "getCredential", "Get Credential", "/r/company/credentials/{id}", "Retrieve a credential by ID"),
				define(MethodPost, "createCredential", "Create Credential", "/w/company/credentials", "Create a credential",
					field("name", "Name", ParameterTypeString, "Credential name"),
					choice("credential_type", "Credential Type", "ad",
						Option{Name: "Active Directory", Value: "ad"},
						Option{Name: "SNMP", Value: "snmp"},
						Option{Name: "SSH", Value: "ssh"},
						Option{Name: "Firewall", Value: "firewall"}),
					field("company_id", "Company ID", ParameterTypeNumber, "Owning company")),
				define(MethodPut, "updateCredential", "Update Credential", "/w/company/credentials/{id}", "Update a credential",
					field("name", "Name", ParameterTypeString, "Credential name")),
				define(MethodDelete, "deleteCredential", "Delete Credential", "/d/company/credentials/{id}", "Delete a credential"),
			},
		},
		{
			ID:               "discoverySettings",
			Name:             "Discovery Settings",
			Description:      "Manage network discovery settings",
			IDField:          "discoverySettingId",
			InjectID:         true,
			DefaultOperation: "getAllDiscoverySettings",
			Operations: []Operation{
				define(MethodGet, "getAllDiscoverySettings", "Get All Discovery Settings", "/r/company/discovery_settings", "Retrieve all discovery settings"),
				define(MethodGet, "getDiscoverySetting", "Get Discovery Setting", "/r/company/discovery_settings/{id}", "Retrieve a discovery setting by ID"),
				define(MethodPost, "createDiscoverySetting", "Create Discovery Setting", "/w/company/discovery_settings", "Create a discovery setting",
					field("name", "Name", ParameterTypeString, "Setting name"),
					choice("discovery_settings_type", "Discovery Type", "ip_range",
						Option{Name: "IP Range", Value: "ip_range"},
						Option{Name: "Static IP", Value: "static_ip"},
						Option{Name: "CIDR", Value: "cidr"}),
					field("address_type", "Address", ParameterTypeString, "IP range, address or CIDR block"),
					field("company_id", "Company ID", ParameterTypeNumber, "Owning company")),
				define(MethodPut, "updateDiscoverySetting", "Update Discovery Setting", "/w/company/discovery_settings/{id}", "Update a discovery setting",
					field("name", "Name", ParameterTypeString, "Setting name"),
					field("address_type", "Address", ParameterTypeString, "IP range, address or CIDR block")),
				define(MethodDelete, "deleteDiscoverySetting", "Delete Discovery Setting", "/d/company/discovery_settings/{id}", "Delete a discovery setting"),
			},
		},
		{
			ID:               "asset",
			Name:             "Asset",
			Description:      "Manage assets",
			IDField:          "assetId",
			InjectID:         true,
			DefaultOperation: "getAllAssets",
			Operations: []Operation{
				define(MethodGet, "getAllAssets", "Get All Assets", "/r/asset/assets", "Retrieve all assets"),
				define(MethodGet, "getAsset", "Get Asset", "/r/asset/assets/{id}", "Retrieve an asset by ID"),
				define(MethodPut, "updateAsset", "Update Asset", "/w/asset/assets/{id}", "Update an asset",
					field("name", "Name", ParameterTypeString, "Asset name"),
					field("importance", "Importance", ParameterTypeNumber, "Asset importance score")),
				define(MethodDelete, "deleteAsset", "Delete Asset", "/d/asset/assets/{id}", "Delete an asset"),
				define(MethodGet, "getAssetStats", "Get Asset Stats", "/r/asset/assets/{id}/stats", "Retrieve statistics for an asset"),
				define(MethodGet, "getAssetStat", "Get Asset Stat", "/r/asset/asset_stats/{assetStatId}", "Retrieve a single asset statistic",
					pathParam("assetStatId", "Asset Stat ID")),
			},
		},
		{
			ID:               "assetData",
			Name:             "Asset Data",
			Description:      "Read detailed data collected from assets",
			DefaultOperation: "getAssetFirewallPolicy",
			Operations: []Operation{
				define(MethodGet, "getAssetFirewallPolicy", "Get Asset Firewall Policy", "/r/asset/assets/{assetId}/firewall_policy", "Retrieve firewall policy of an asset",
					pathParam("assetId", "Asset ID")),
				define(MethodGet, "getAssetFirewallPolicyById", "Get Asset Firewall Policy By ID", "/r/asset/asset_firewall_policy/{firewallPolicyId}", "Retrieve a firewall policy entry",
					pathParam("firewallPolicyId", "Firewall Policy ID")),
				define(MethodGet, "getAssetInstalledDrivers", "Get Asset Installed Drivers", "/r/asset/assets/{assetId}/installed_drivers", "Retrieve drivers installed on an asset",
					pathParam("assetId", "Asset ID")),
				define(MethodGet, "getAssetInstalledDriver", "Get Asset Installed Driver", "/r/asset/asset_installed_drivers/{driverId}", "Retrieve an installed driver",
					pathParam("driverId", "Driver ID")),
				define(MethodGet, "getAssetInterfaces", "Get Asset Interfaces", "/r/asset/assets/{assetId}/interfaces", "Retrieve network interfaces of an asset",
					pathParam("assetId", "Asset ID")),
				define(MethodGet, "getAssetInterface", "Get Asset Interface", "/r/asset/asset_interfaces/{interfaceId}", "Retrieve a network interface",
					pathParam("interfaceId", "Interface ID")),
				define(MethodGet, "getAssetMsdt", "Get Asset MSDT", "/r/asset/assets/{assetId}/msdt", "Retrieve MSDT status of an asset",
					pathParam("assetId", "Asset ID")),
				define(MethodGet, "getAssetMsdtById", "Get Asset MSDT By ID", "/r/asset/asset_msdt/{msdtId}", "Retrieve an MSDT entry",
					pathParam("msdtId", "MSDT ID")),
				define(MethodGet, "getAssetPorts", "Get Asset Ports", "/r/asset/assets/{assetId}/ports", "Retrieve open ports of an asset",
					pathParam("assetId", "Asset ID")),
				define(MethodGet, "getAssetPort", "Get Asset Port", "/r/asset/asset_ports/{portId}", "Retrieve a port entry",
					pathParam("portId", "Port ID")),
				define(MethodGet, "getAssetSecurityReportData", "Get Asset Security Report Data", "/r/asset/assets/{assetId}/security_report_data", "Retrieve security report data of an asset",
					pathParam("assetId", "Asset ID")),
				define(MethodGet, "getAssetSecurityReportDatum", "Get Asset Security Report Datum", "/r/asset/asset_security_report_data/{reportId}", "Retrieve a security report entry",
					pathParam("reportId", "Report ID")),
				define(MethodGet, "getAssetShares", "Get Asset Shares", "/r/asset/assets/{assetId}/shares", "Retrieve shares of an asset",
					pathParam("assetId", "Asset ID")),
				define(MethodGet, "getAssetShare", "Get Asset Share", "/r/asset/asset_shares/{shareId}", "Retrieve a share",
					pathParam("shareId", "Share ID")),
				define(MethodGet, "getAssetStorages", "Get Asset Storages", "/r/asset/assets/{assetId}/storages", "Retrieve storage devices of an asset",
					pathParam("assetId", "Asset ID")),
				define(MethodGet, "getAssetStorage", "Get Asset Storage", "/r/asset/asset_storages/{storageId}", "Retrieve a storage device",
					pathParam("storageId", "Storage ID")),
				define(MethodGet, "getAssetUnquotedServices", "Get Asset Unquoted Services", "/r/asset/assets/{assetId}/unquoted_services", "Retrieve unquoted service paths of an asset",
					pathParam("assetId", "Asset ID")),
				define(MethodGet, "getAssetUnquotedServiceById", "Get Asset Unquoted Service By ID", "/r/asset/assets/{assetId}/unquoted_services/{serviceId}", "Retrieve an unquoted service path",
					pathParam("assetId", "Asset ID"),
					pathParam("serviceId", "Service ID")),
				define(MethodGet, "getAssetComplianceReportCard", "Get Asset Compliance Report Card", "/r/asset/assets/{assetId}/compliance_report_card", "Retrieve the compliance report card of an asset",
					pathParam("assetId", "Asset ID")),
				define(MethodGet, "getAssetUserShareById", "Get Asset User Share By ID", "/r/asset/assets/{assetId}/user_shares", "Retrieve user shares of an asset",
					pathParam("assetId", "Asset ID")),
				define(MethodGet, "getAssetVideoInfoById", "Get Asset Video Info By ID", "/r/asset/assets/{assetId}/video_info", "Retrieve video adapter info of an asset",
					pathParam("assetId", "Asset ID")),
				define(MethodGet, "getAssetViewById", "Get Asset View By ID", "/r/asset/assets/{assetId}/view", "Retrieve the consolidated view of an asset",
					pathParam("assetId", "Asset ID")),
				define(MethodGet, "getAssetWindowsRebootRequiredById", "Get Asset Windows Reboot Required By ID", "/r/asset/assets/{assetId}/windows_reboot_required", "Retrieve pending reboot state of an asset",
					pathParam("assetId", "Asset ID")),
			},
		},
		{
			ID:               "agentCredentialsMapping",
			Name:             "Agent Credentials Mapping",
			Description:      "Map credentials to agents",
			IDField:          "mappingId",
			InjectID:         true,
			DefaultOperation: "getAllAgentCredentialsMappings",
			Operations: []Operation{
				define(MethodGet, "getAllAgentCredentialsMappings", "Get All Agent Credentials Mappings", "/r/company/agent_credentials_mapping", "Retrieve all agent credential mappings"),
				define(MethodGet, "getAgentCredentialsMapping", "Get Agent Credentials Mapping", "/r/company/agent_credentials_mapping/{id}", "Retrieve an agent credential mapping"),
				define(MethodPost, "createAgentCredentialsMapping", "Create Agent Credentials Mapping", "/w/company/agent_credentials_mapping", "Map a credential to an agent",
					field("agent_id", "Agent ID", ParameterTypeNumber, "Agent to map"),
					field("credential_id", "Credential ID", ParameterTypeNumber, "Credential to map")),
				define(MethodPut, "updateAgentCredentialsMapping", "Update Agent Credentials Mapping", "/w/company/agent_credentials_mapping/{id}", "Update an agent credential mapping",
					field("credential_id", "Credential ID", ParameterTypeNumber, "Credential to map")),
				define(MethodDelete, "deleteAgentCredentialsMapping", "Delete Agent Credentials Mapping", "/d/company/agent_credentials_mapping/{id}", "Delete an agent credential mapping"),
			},
		},
		{
			ID:               "agentDiscoverySettingsMapping",
			Name:             "Agent Discovery Settings Mapping",
			Description:      "Map discovery settings to agents",
			IDField:          "mappingId",
			InjectID:         true,
			DefaultOperation: "getAgentDiscoverySettingsMapping",
			Operations: []Operation{
				define(MethodGet, "getAllAgentDiscoverySettingsMappings", "Get All Agent Discovery Settings Mappings", "/r/company/agent_discoverysettings_mapping", "Retrieve all agent discovery setting mappings"),
				define(MethodGet, "getAgentDiscoverySettingsMapping", "Get Agent Discovery Settings Mapping", "/r/company/agent_discoverysettings_mapping/{id}", "Retrieve an agent discovery setting mapping"),
				define(MethodPost, "createAgentDiscoverySettingsMapping", "Create Agent Discovery Settings Mapping", "/w/company/agent_discoverysettings_mapping", "Map a discovery setting to an agent",
					field("agent_id", "Agent ID", ParameterTypeNumber, "Agent to map"),
					field("discovery_settings_id", "Discovery Setting ID", ParameterTypeNumber, "Discovery setting to map")),
				define(MethodPut, "updateAgentDiscoverySettingsMapping", "Update Agent Discovery Settings Mapping", "/w/company/agent_discoverysettings_mapping/{id}", "Update an agent discovery setting mapping",
					field("discovery_settings_id", "Discovery Setting ID", ParameterTypeNumber, "Discovery setting to map")),
				define(MethodDelete, "deleteAgentDiscoverySettingsMapping", "Delete Agent Discovery Settings Mapping", "/d/company/agent_discoverysettings_mapping/{id}", "Delete an agent discovery setting mapping"),
			},
		},
		{
			ID:               "vulnerability",
			Name:             "Vulnerability",
			Description:      "Manage suppressed vulnerabilities",
			IDField:          "vulnerabilityId",
			InjectID:         true,
			DefaultOperation: "getSuppressVulnerability",
			Operations: []Operation{
				define(MethodGet, "getSuppressVulnerability", "Get Suppressed Vulnerabilities", "/r/company/suppress_vulnerability", "Retrieve suppressed vulnerabilities"),
				define(MethodGet, "getSuppressVulnerabilityById", "Get Suppressed Vulnerability", "/r/company/suppress_vulnerability/{id}", "Retrieve a suppressed vulnerability"),
				define(MethodPost, "createSuppressVulnerability", "Suppress Vulnerability", "/w/company/suppress_vulnerability", "Suppress a vulnerability",
					field("problem_id", "Problem ID", ParameterTypeString, "Vulnerability to suppress"),
					field("reason", "Reason", ParameterTypeString, "Why the vulnerability is suppressed"),
					field("suppress_till", "Suppress Until", ParameterTypeString, "Expiry date of the suppression")),
				define(MethodDelete, "deleteSuppressVulnerability", "Delete Suppressed Vulnerability", "/d/company/suppress_vulnerability/{id}", "Remove a vulnerability suppression"),
			},
		},
		{
			ID:               "firewall",
			Name:             "Firewall",
			Description:      "Read firewall configuration",
			DefaultOperation: "getFirewallGroups",
			Operations: []Operation{
				define(MethodGet, "getFirewallGroups", "Get Firewall Groups", "/r/asset/firewall_groups", "Retrieve firewall groups"),
				define(MethodGet, "getFirewallGroupById", "Get Firewall Group", "/r/asset/firewall_groups/{firewallGroupId}", "Retrieve a firewall group",
					pathParam("firewallGroupId", "Firewall Group ID")),
				define(MethodGet, "getFirewallInterfaces", "Get Firewall Interfaces", "/r/asset/firewall_interfaces", "Retrieve firewall interfaces"),
				define(MethodGet, "getFirewallInterfaceById", "Get Firewall Interface", "/r/asset/firewall_interfaces/{firewallInterfaceId}", "Retrieve a firewall interface",
					pathParam("firewallInterfaceId", "Firewall Interface ID")),
				define(MethodGet, "getFirewallLicenses", "Get Firewall Licenses", "/r/asset/firewall_license", "Retrieve firewall licenses"),
				define(MethodGet, "getFirewallLicenseById", "Get Firewall License", "/r/asset/firewall_license/{firewallLicenseId}", "Retrieve a firewall license",
					pathParam("firewallLicenseId", "Firewall License ID")),
				define(MethodGet, "getFirewallRules", "Get Firewall Rules", "/r/asset/firewall_rules", "Retrieve firewall rules"),
				define(MethodGet, "getFirewallRuleById", "Get Firewall Rule", "/r/asset/firewall_rules/{firewallRuleId}", "Retrieve a firewall rule",
					pathParam("firewallRuleId", "Firewall Rule ID")),
				define(MethodGet, "getFirewallUsers", "Get Firewall Users", "/r/asset/firewall_users", "Retrieve firewall users"),
				define(MethodGet, "getFirewallUserById", "Get Firewall User", "/r/asset/firewall_users/{firewallUserId}", "Retrieve a firewall user",
					pathParam("firewallUserId", "Firewall User ID")),
				define(MethodGet, "getFirewallZones", "Get Firewall Zones", "/r/asset/firewall_zones", "Retrieve firewall zones"),
				define(MethodGet, "getFirewallZoneById", "Get Firewall Zone", "/r/asset/firewall_zones/{firewallZoneId}", "Retrieve a firewall zone",
					pathParam("firewallZoneId", "Firewall Zone ID")),
			},
		},
		{
			ID:               "bios",
			Name:             "BIOS",
			Description:      "Read BIOS information",
			DefaultOperation: "getBiosInfo",
			Operations: []Operation{
				define(MethodGet, "getBiosInfo", "Get BIOS Info", "/r/asset/bios_info", "Retrieve BIOS information of assets"),
			},
		},
		{
			ID:               "browser",
			Name:             "Browser",
			Description:      "Read browser extension inventory",
			DefaultOperation: "getBrowserExtensions",
			Operations: []Operation{
				define(MethodGet, "getBrowserExtensions", "Get Browser Extensions", "/r/asset/browser_extensions", "Retrieve installed browser extensions"),
			},
		},
		{
			ID:               "ciphers",
			Name:             "Ciphers",
			Description:      "Read TLS cipher information",
			DefaultOperation: "getCiphersView",
			Operations: []Operation{
				define(MethodGet, "getCiphersView", "Get Ciphers View", "/r/report_queries/ciphers_view", "Retrieve the cipher suite view"),
			},
		},
		{
			ID:               "windowsProtection",
			Name:             "Windows Protection",
			Description:      "Read Windows protection status",
			DefaultOperation: "getWindowsProtectionStatus",
			Operations: []Operation{
				define(MethodGet, "getWindowsProtectionStatus", "Get Windows Protection Status", "/r/asset/windows_protection_status", "Retrieve Windows protection status of assets"),
			},
		},
		{
			ID:               "reportQueries",
			Name:             "Report Queries",
			Description:      "Run predefined report queries",
			DefaultOperation: "getAssetSecurityReportData",
			Operations: []Operation{
				define(MethodGet, "getAssetSecurityReportData", "Get Asset Security Report Data", "/r/report_queries/asset_security_report_data", "Retrieve security report data across assets"),
				define(MethodGet, "getAssetSoftware", "Get Asset Software", "/r/report_queries/asset_software", "Retrieve installed software across assets"),
				define(MethodGet, "getAssetWiseVulnerabilities", "Get Asset Wise Vulnerabilities", "/r/report_queries/asset_wise_vulnerabilities", "Retrieve vulnerabilities grouped by asset"),
				define(MethodGet, "getAssetsByApplication", "Get Assets By Application", "/r/report_queries/assets_by_application", "Retrieve assets running an application"),
				define(MethodGet, "getAssetsByApplicationSuppressed", "Get Assets By Application Suppressed", "/r/report_queries/assets_by_application_suppressed", "Retrieve assets running a suppressed application"),
				define(MethodGet, "getCertInfoView", "Get Cert Info View", "/r/report_queries/cert_info_view", "Retrieve certificate information"),
				define(MethodGet, "getCompaniesByApplication", "Get Companies By Application", "/r/report_queries/companies_by_application", "Retrieve companies running an application"),
				define(MethodGet, "getCompaniesByApplicationSuppressed", "Get Companies By Application Suppressed", "/r/report_queries/companies_by_application_suppressed", "Retrieve companies running a suppressed application"),
				define(MethodGet, "getCompaniesByProblemGroup", "Get Companies By Problem Group", "/r/report_queries/companies_by_problem_group", "Retrieve companies affected by a problem group"),
				define(MethodGet, "getCompaniesByProblemGroupSuppressed", "Get Companies By Problem Group Suppressed", "/r/report_queries/companies_by_problem_group_suppressed", "Retrieve companies affected by a suppressed problem group"),
				define(MethodGet, "getComplianceAssetInfo", "Get Compliance Asset Info", "/r/report_queries/compliance_asset_info", "Retrieve compliance information per asset"),
				define(MethodGet, "getComplianceCheckAssetCount", "Get Compliance Check Asset Count", "/r/report_queries/compliance_check_asset_count", "Count assets per compliance check"),
				define(MethodGet, "getComplianceCheckCompanyCount", "Get Compliance Check Company Count", "/r/report_queries/compliance_check_company_count", "Count companies per compliance check"),
				define(MethodGet, "getComplianceCheckCount", "Get Compliance Check Count", "/r/report_queries/compliance_check_count", "Count compliance checks"),
				define(MethodGet, "getComplianceCheckCountBySection", "Get Compliance Check Count By Section", "/r/report_queries/compliance_check_count_by_section", "Count compliance checks per section"),
			},
		},
		{
			ID:               "integration",
			Name:             "Integration",
			Description:      "Manage third-party integrations",
			IDField:          "integrationCredentialId",
			InjectID:         true,
			DefaultOperation: "getCompanyMappings",
			Operations: []Operation{
				define(MethodGet, "getCompanyMappings", "Get Company Mappings", "/r/integration/company_mappings", "Retrieve integration company mappings"),
				define(MethodGet, "getCompanyMappingById", "Get Company Mapping", "/r/integration/company_mappings/{companyMappingId}", "Retrieve an integration company mapping",
					pathParam("companyMappingId", "Company Mapping ID")),
				define(MethodPost, "createCompanyMapping", "Create Company Mapping", "/w/integration/company_mappings", "Map a company to an integration tenant",
					field("company_id", "Company ID", ParameterTypeNumber, "Connect Secure company"),
					field("integration_name", "Integration Name", ParameterTypeString, "Integration the mapping belongs to"),
					field("external_id", "External ID", ParameterTypeString, "Identifier of the company in the integration")),
				define(MethodDelete, "deleteCompanyMapping", "Delete Company Mapping", "/d/integration/company_mappings/{companyMappingId}", "Delete an integration company mapping",
					pathParam("companyMappingId", "Company Mapping ID")),
				define(MethodGet, "getIntegrationCredentials", "Get Integration Credentials", "/r/integration/credentials", "Retrieve integration credentials"),
				define(MethodGet, "getIntegrationCredentialById", "Get Integration Credential", "/r/integration/credentials/{id}", "Retrieve an integration credential"),
				define(MethodPost, "createIntegrationCredential", "Create Integration Credential", "/w/integration/credentials", "Create an integration credential",
					field("name", "Name", ParameterTypeString, "Credential name"),
					field("integration_name", "Integration Name", ParameterTypeString, "Integration the credential belongs to"),
					field("credential", "Credential", ParameterTypeJSON, "Integration-specific credential fields")),
				define(MethodDelete, "deleteIntegrationCredential", "Delete Integration Credential", "/d/integration/credentials/{id}", "Delete an integration credential"),
				define(MethodGet, "getIntegrationRules", "Get Integration Rules", "/r/integration/rules", "Retrieve integration rules"),
				define(MethodGet, "getIntegrationRuleById", "Get Integration Rule", "/r/integration/rules/{integrationRuleId}", "Retrieve an integration rule",
					pathParam("integrationRuleId", "Integration Rule ID")),
				define(MethodPost, "createIntegrationRule", "Create Integration Rule", "/w/integration/rules", "Create an integration rule",
					field("name", "Name", ParameterTypeString, "Rule name"),
					field("integration_name", "Integration Name", ParameterTypeString, "Integration the rule belongs to"),
					field("rule", "Rule", ParameterTypeJSON, "Rule definition")),
				define(MethodDelete, "deleteIntegrationRule", "Delete Integration Rule", "/d/integration/rules/{integrationRuleId}", "Delete an integration rule",
					pathParam("integrationRuleId", "Integration Rule ID")),
			},
		},
		{
			ID:               "authorization",
			Name:             "Authorization",
			Description:      "Obtain and inspect API sessions",
			DefaultOperation: "authorize",
			Operations: []Operation{
				define(MethodPost, "authorize", "Authorize", "/w/authorize", "Authorize the client and obtain an authorization code"),
				define(MethodPost, "login", "Login", "/w/auth/login", "Exchange the authorization for an access token"),
			},
		},
		{
			ID:               "reportBuilder",
			Name:             "Report Builder",
			Description:      "Configure and list standard reports",
			DefaultOperation: "getStandardReportSettings",
			Operations: []Operation{
				define(MethodGet, "getStandardReportSettings", "Get Standard Report Settings", "/r/report_builder/standard_report_settings", "Retrieve standard report settings"),
				define(MethodPut, "updateStandardReportSettings", "Update Standard Report Settings", "/w/report_builder/standard_report_settings", "Update standard report settings",
					field("settings", "Settings", ParameterTypeJSON, "Report settings document"),
					choice("schedule", "Schedule", "monthly",
						Option{Name: "Daily", Value: "daily"},
						Option{Name: "Weekly", Value: "weekly"},
						Option{Name: "Monthly", Value: "monthly"})),
				define(MethodGet, "getStandardReports", "Get Standard Reports", "/r/report_builder/standard_reports", "Retrieve generated standard reports"),
			},
		},
		{
			ID:               "adInformation",
			Name:             "AD Information",
			Description:      "Read Active Directory data",
			DefaultOperation: "getAdInformation",
			Operations: []Operation{
				define(MethodGet, "getAdInformation", "Get AD Information", "/r/ad/ad_information", "Retrieve Active Directory domain information"),
				define(MethodGet, "getAdUsers", "Get AD Users", "/r/ad/ad_users", "Retrieve Active Directory users"),
				define(MethodGet, "getAdComputers", "Get AD Computers", "/r/ad/ad_computers", "Retrieve Active Directory computers"),
			},
		},
		{
			ID:               "assetDetails",
			Name:             "Asset Details",
			Description:      "Read asset details",
			DefaultOperation: "getAssetDetails",
			Operations: []Operation{
				define(MethodGet, "getAssetDetails", "Get Asset Details", "/r/asset/asset_details", "Retrieve details of all assets"),
				define(MethodGet, "getAssetDetail", "Get Asset Detail", "/r/asset/asset_details/{assetId}", "Retrieve details of one asset",
					pathParam("assetId", "Asset ID")),
			},
		},
		{
			ID:               "eventInformation",
			Name:             "Event Information",
			Description:      "Read collected event log information",
			DefaultOperation: "getEventInformation",
			Operations: []Operation{
				define(MethodGet, "getEventInformation", "Get Event Information", "/r/asset/event_information", "Retrieve collected event log entries"),
			},
		},
	}
}
